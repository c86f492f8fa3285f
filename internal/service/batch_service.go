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

type batchRepo interface {
	List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, error)
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id string) error
}

// UpsertBatchRequest is the admin payload for a batch.
type UpsertBatchRequest struct {
	BatchYear        string `validate:"required"`
	NumTrainees      int    `validate:"gte=0"`
	TrainingDuration string `validate:"required"`
	TrainingLocation *string
	TrainerID        *string
}

// BatchService covers batch administration.
type BatchService struct {
	batches   batchRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBatchService constructs a BatchService.
func NewBatchService(batches batchRepo, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{batches: batches, validator: validate, logger: logger}
}

// List returns batches matching the filter.
func (s *BatchService) List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, error) {
	batches, err := s.batches.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to list batches")
	}
	return batches, nil
}

// Get returns one batch by ID.
func (s *BatchService) Get(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to load batch")
	}
	return batch, nil
}

// Create opens a new batch.
func (s *BatchService) Create(ctx context.Context, req UpsertBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid batch payload")
	}
	batch := &models.Batch{
		BatchYear:        req.BatchYear,
		NumTrainees:      req.NumTrainees,
		TrainingDuration: req.TrainingDuration,
		TrainingLocation: req.TrainingLocation,
		TrainerID:        req.TrainerID,
	}
	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to create batch")
	}
	return batch, nil
}

// Update edits a batch.
func (s *BatchService) Update(ctx context.Context, id string, req UpsertBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid batch payload")
	}
	batch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	batch.BatchYear = req.BatchYear
	batch.NumTrainees = req.NumTrainees
	batch.TrainingDuration = req.TrainingDuration
	batch.TrainingLocation = req.TrainingLocation
	batch.TrainerID = req.TrainerID
	if err := s.batches.Update(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to update batch")
	}
	return batch, nil
}

// Delete removes a batch; its exams cascade away.
func (s *BatchService) Delete(ctx context.Context, id string) error {
	if err := s.batches.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to delete batch")
	}
	return nil
}
