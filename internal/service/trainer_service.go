package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/haise314/exam-management-system/internal/models"
	appErrors "github.com/haise314/exam-management-system/pkg/errors"
)

type trainerRepo interface {
	List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, error)
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
	Create(ctx context.Context, trainer *models.Trainer) error
	Update(ctx context.Context, trainer *models.Trainer) error
	Delete(ctx context.Context, id string) error
}

// UpsertTrainerRequest is the admin payload for a trainer.
type UpsertTrainerRequest struct {
	Name          string `validate:"required"`
	ClassAssigned *string
	ContactEmail  *string   `validate:"omitempty,email"`
	HireDate      time.Time `validate:"required"`
}

// TrainerService covers trainer administration.
type TrainerService struct {
	trainers  trainerRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTrainerService constructs a TrainerService.
func NewTrainerService(trainers trainerRepo, validate *validator.Validate, logger *zap.Logger) *TrainerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainerService{trainers: trainers, validator: validate, logger: logger}
}

// List returns trainers matching the filter.
func (s *TrainerService) List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, error) {
	trainers, err := s.trainers.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to list trainers")
	}
	return trainers, nil
}

// Get returns one trainer by ID.
func (s *TrainerService) Get(ctx context.Context, id string) (*models.Trainer, error) {
	trainer, err := s.trainers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to load trainer")
	}
	return trainer, nil
}

// Create registers a new trainer.
func (s *TrainerService) Create(ctx context.Context, req UpsertTrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid trainer payload")
	}
	trainer := &models.Trainer{
		Name:          req.Name,
		ClassAssigned: req.ClassAssigned,
		ContactEmail:  req.ContactEmail,
		HireDate:      req.HireDate,
	}
	if err := s.trainers.Create(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to create trainer")
	}
	return trainer, nil
}

// Update edits a trainer.
func (s *TrainerService) Update(ctx context.Context, id string, req UpsertTrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid trainer payload")
	}
	trainer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	trainer.Name = req.Name
	trainer.ClassAssigned = req.ClassAssigned
	trainer.ContactEmail = req.ContactEmail
	trainer.HireDate = req.HireDate
	if err := s.trainers.Update(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to update trainer")
	}
	return trainer, nil
}

// Delete removes a trainer; owned batches keep running with a nulled
// trainer reference.
func (s *TrainerService) Delete(ctx context.Context, id string) error {
	if err := s.trainers.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to delete trainer")
	}
	return nil
}
