package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/haise314/exam-management-system/internal/codec"
	"github.com/haise314/exam-management-system/internal/models"
	appErrors "github.com/haise314/exam-management-system/pkg/errors"
)

type scoringQuestionReader interface {
	ListEncodedByExam(ctx context.Context, examID string) ([]models.ExamQuestion, error)
}

type resultRecorder interface {
	Record(ctx context.Context, result *models.Result, replace bool) error
}

// SubmitRequest carries one graded submission. Answers maps question ID
// to the chosen letter; unanswered questions are simply absent. Retake
// marks a resubmission the eligibility checker approved after a failed
// attempt.
type SubmitRequest struct {
	TraineeID        string `validate:"required"`
	ExamID           string `validate:"required"`
	Answers          map[string]string
	TimeSpentSeconds int `validate:"gte=0"`
	Retake           bool
}

// ScoringService grades a submission against the exam's question set
// and persists the outcome atomically.
type ScoringService struct {
	questions scoringQuestionReader
	results   resultRecorder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewScoringService constructs a ScoringService.
func NewScoringService(questions scoringQuestionReader, results resultRecorder, validate *validator.Validate, logger *zap.Logger) *ScoringService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringService{
		questions: questions,
		results:   results,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit scores the answers, derives percentage and pass/fail, and
// records the result plus the trainee aggregates in one transaction.
// Nothing is persisted when any step fails.
func (s *ScoringService) Submit(ctx context.Context, req SubmitRequest) (*models.ExamScore, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid submission payload")
	}

	questions, err := s.questions.ListEncodedByExam(ctx, req.ExamID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to load questions")
	}
	if len(questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoQuestions, "")
	}

	score := 0
	totalItems := 0
	for _, q := range questions {
		totalItems += q.Points

		_, correct, err := codec.Decode(q.EncodedOptions)
		if err != nil {
			// A question that cannot be decoded must block grading; a
			// silent skip would mis-score the attempt.
			return nil, appErrors.Wrap(err, appErrors.ErrDecoding.Code, "question "+q.ID+" is malformed")
		}
		if req.Answers[q.ID] == correct {
			score += q.Points
		}
	}

	percentage := 0.0
	if totalItems > 0 {
		percentage = float64(score) / float64(totalItems) * 100
	}

	status := models.ResultStatusFailed
	if percentage >= models.PassThreshold {
		status = models.ResultStatusPassed
	}

	result := &models.Result{
		TraineeID:        req.TraineeID,
		ExamID:           req.ExamID,
		Score:            score,
		TotalItems:       totalItems,
		Percentage:       percentage,
		TimeSpentSeconds: req.TimeSpentSeconds,
		DateTaken:        s.now().UTC(),
		Status:           status,
	}
	if err := s.results.Record(ctx, result, req.Retake); err != nil {
		return nil, err
	}

	s.logger.Info("exam graded",
		zap.String("trainee_id", req.TraineeID),
		zap.String("exam_id", req.ExamID),
		zap.Int("score", score),
		zap.Int("total_items", totalItems),
		zap.Float64("percentage", percentage),
		zap.String("status", string(status)),
	)

	return &models.ExamScore{Score: score, TotalItems: totalItems, Percentage: percentage}, nil
}
