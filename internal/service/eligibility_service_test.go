package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haise314/exam-management-system/internal/models"
)

type stubExamFinder struct {
	exam *models.Exam
	err  error
}

func (s *stubExamFinder) FindActive(ctx context.Context, id string) (*models.Exam, error) {
	return s.exam, s.err
}

type stubLastResult struct {
	result *models.Result
	err    error
}

func (s *stubLastResult) Last(ctx context.Context, traineeID, examID string) (*models.Result, error) {
	return s.result, s.err
}

func activeExam() *models.Exam {
	return &models.Exam{ID: "exam-1", Title: "Safety Basics", TimeLimitMinutes: 30, Status: models.ExamStatusActive}
}

func TestCanTakeInactiveExamDenied(t *testing.T) {
	svc := NewEligibilityService(&stubExamFinder{exam: nil}, &stubLastResult{}, 24*time.Hour, nil)

	verdict, err := svc.CanTake(context.Background(), "trainee-1", "exam-1")
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "exam not found or inactive", verdict.Reason)
}

func TestCanTakeFirstAttempt(t *testing.T) {
	svc := NewEligibilityService(&stubExamFinder{exam: activeExam()}, &stubLastResult{}, 24*time.Hour, nil)

	verdict, err := svc.CanTake(context.Background(), "trainee-1", "exam-1")
	require.NoError(t, err)
	assert.True(t, verdict.Allowed)
	assert.Equal(t, "first attempt", verdict.Reason)
	assert.Nil(t, verdict.Previous)
}

func TestCanTakePassedNeverRetakes(t *testing.T) {
	prev := &models.Result{Status: models.ResultStatusPassed, Percentage: 87.5, DateTaken: time.Now().Add(-90 * 24 * time.Hour)}
	svc := NewEligibilityService(&stubExamFinder{exam: activeExam()}, &stubLastResult{result: prev}, 24*time.Hour, nil)

	verdict, err := svc.CanTake(context.Background(), "trainee-1", "exam-1")
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "already passed with 87.5%", verdict.Reason)
	assert.Equal(t, prev, verdict.Previous)
}

func TestCanTakeFailedWithinCooldownDenied(t *testing.T) {
	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	prev := &models.Result{Status: models.ResultStatusFailed, Percentage: 50, DateTaken: now.Add(-6 * time.Hour)}
	svc := NewEligibilityService(&stubExamFinder{exam: activeExam()}, &stubLastResult{result: prev}, 24*time.Hour, nil)
	svc.now = func() time.Time { return now }

	verdict, err := svc.CanTake(context.Background(), "trainee-1", "exam-1")
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "retry available in 18h0m0s", verdict.Reason)
}

func TestCanTakeFailedAfterCooldownAllowed(t *testing.T) {
	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	prev := &models.Result{Status: models.ResultStatusFailed, Percentage: 50, DateTaken: now.Add(-24 * time.Hour)}
	svc := NewEligibilityService(&stubExamFinder{exam: activeExam()}, &stubLastResult{result: prev}, 24*time.Hour, nil)
	svc.now = func() time.Time { return now }

	verdict, err := svc.CanTake(context.Background(), "trainee-1", "exam-1")
	require.NoError(t, err)
	assert.True(t, verdict.Allowed)
	assert.Equal(t, "retake attempt allowed", verdict.Reason)
	assert.Equal(t, prev, verdict.Previous)
}

func TestCanTakeJustUnderCooldownDenied(t *testing.T) {
	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	prev := &models.Result{Status: models.ResultStatusFailed, DateTaken: now.Add(-24*time.Hour + time.Minute)}
	svc := NewEligibilityService(&stubExamFinder{exam: activeExam()}, &stubLastResult{result: prev}, 24*time.Hour, nil)
	svc.now = func() time.Time { return now }

	verdict, err := svc.CanTake(context.Background(), "trainee-1", "exam-1")
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
}
