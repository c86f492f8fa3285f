package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/haise314/exam-management-system/internal/models"
)

type eligibilityExamReader interface {
	FindActive(ctx context.Context, id string) (*models.Exam, error)
}

type eligibilityResultReader interface {
	Last(ctx context.Context, traineeID, examID string) (*models.Result, error)
}

// Eligibility is the verdict on whether a trainee may start an exam.
// Previous carries the prior graded attempt when one exists.
type Eligibility struct {
	Allowed  bool           `json:"allowed"`
	Reason   string         `json:"reason"`
	Previous *models.Result `json:"previous,omitempty"`
}

// EligibilityService decides whether an attempt may start. It is purely
// read-only: a denied or granted verdict never mutates anything.
type EligibilityService struct {
	exams    eligibilityExamReader
	results  eligibilityResultReader
	cooldown time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewEligibilityService constructs an EligibilityService. cooldown is
// how long a failed attempt blocks a retake.
func NewEligibilityService(exams eligibilityExamReader, results eligibilityResultReader, cooldown time.Duration, logger *zap.Logger) *EligibilityService {
	if cooldown <= 0 {
		cooldown = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityService{
		exams:    exams,
		results:  results,
		cooldown: cooldown,
		logger:   logger,
		now:      time.Now,
	}
}

// CanTake applies the attempt policy, in order: the exam must exist and
// be Active; a first attempt is always allowed; a passed exam is closed
// forever; a failed attempt opens again once the cooldown has elapsed.
func (s *EligibilityService) CanTake(ctx context.Context, traineeID, examID string) (*Eligibility, error) {
	exam, err := s.exams.FindActive(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return &Eligibility{Allowed: false, Reason: "exam not found or inactive"}, nil
	}

	prev, err := s.results.Last(ctx, traineeID, examID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return &Eligibility{Allowed: true, Reason: "first attempt"}, nil
	}

	if prev.Status == models.ResultStatusPassed {
		return &Eligibility{
			Allowed:  false,
			Reason:   fmt.Sprintf("already passed with %.1f%%", prev.Percentage),
			Previous: prev,
		}, nil
	}

	elapsed := s.now().Sub(prev.DateTaken)
	if elapsed < s.cooldown {
		remaining := (s.cooldown - elapsed).Round(time.Minute)
		return &Eligibility{
			Allowed:  false,
			Reason:   fmt.Sprintf("retry available in %s", remaining),
			Previous: prev,
		}, nil
	}

	return &Eligibility{Allowed: true, Reason: "retake attempt allowed", Previous: prev}, nil
}
