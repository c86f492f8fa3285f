package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/haise314/exam-management-system/internal/models"
	appErrors "github.com/haise314/exam-management-system/pkg/errors"
)

type traineeRepo interface {
	List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, error)
	FindByID(ctx context.Context, id string) (*models.Trainee, error)
	Create(ctx context.Context, trainee *models.Trainee) error
	Update(ctx context.Context, trainee *models.Trainee) error
	Delete(ctx context.Context, id string) error
}

type availableExamReader interface {
	ListAvailable(ctx context.Context, traineeID string) ([]models.AvailableExam, error)
}

type traineeResultReader interface {
	ListByTrainee(ctx context.Context, traineeID string) ([]models.TraineeResult, error)
}

// UpsertTraineeRequest is the admin payload for creating or editing a
// trainee. The derived fields (exams_taken, grading status) are not
// part of it.
type UpsertTraineeRequest struct {
	Name      string `validate:"required"`
	IDNo      string `validate:"required"`
	ULI       *string
	BatchID   *string
	BatchYear string `validate:"required"`
	Remarks   *string
}

// TraineeService covers trainee administration and the trainee-facing
// read views.
type TraineeService struct {
	trainees  traineeRepo
	exams     availableExamReader
	results   traineeResultReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTraineeService constructs a TraineeService.
func NewTraineeService(trainees traineeRepo, exams availableExamReader, results traineeResultReader, validate *validator.Validate, logger *zap.Logger) *TraineeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TraineeService{trainees: trainees, exams: exams, results: results, validator: validate, logger: logger}
}

// List returns trainees matching the filter.
func (s *TraineeService) List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, error) {
	trainees, err := s.trainees.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to list trainees")
	}
	return trainees, nil
}

// Get returns one trainee by ID.
func (s *TraineeService) Get(ctx context.Context, id string) (*models.Trainee, error) {
	trainee, err := s.trainees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to load trainee")
	}
	return trainee, nil
}

// Create enrols a new trainee.
func (s *TraineeService) Create(ctx context.Context, req UpsertTraineeRequest) (*models.Trainee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid trainee payload")
	}
	trainee := &models.Trainee{
		Name:      req.Name,
		IDNo:      req.IDNo,
		ULI:       req.ULI,
		BatchID:   req.BatchID,
		BatchYear: req.BatchYear,
		Status:    models.TraineeStatusActive,
		Remarks:   req.Remarks,
	}
	if err := s.trainees.Create(ctx, trainee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to create trainee")
	}
	s.logger.Info("trainee created", zap.String("trainee_id", trainee.ID), zap.String("id_no", trainee.IDNo))
	return trainee, nil
}

// Update edits admin-owned trainee fields.
func (s *TraineeService) Update(ctx context.Context, id string, req UpsertTraineeRequest) (*models.Trainee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid trainee payload")
	}
	trainee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	trainee.Name = req.Name
	trainee.IDNo = req.IDNo
	trainee.ULI = req.ULI
	trainee.BatchID = req.BatchID
	trainee.BatchYear = req.BatchYear
	trainee.Remarks = req.Remarks
	if err := s.trainees.Update(ctx, trainee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to update trainee")
	}
	return trainee, nil
}

// Delete removes a trainee and cascades their results.
func (s *TraineeService) Delete(ctx context.Context, id string) error {
	if err := s.trainees.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to delete trainee")
	}
	return nil
}

// AvailableExams returns the exams of the trainee's batch, marked with
// whether each has already been taken.
func (s *TraineeService) AvailableExams(ctx context.Context, traineeID string) ([]models.AvailableExam, error) {
	exams, err := s.exams.ListAvailable(ctx, traineeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to list available exams")
	}
	return exams, nil
}

// Results returns the trainee's graded history, newest first.
func (s *TraineeService) Results(ctx context.Context, traineeID string) ([]models.TraineeResult, error) {
	results, err := s.results.ListByTrainee(ctx, traineeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to list results")
	}
	return results, nil
}
