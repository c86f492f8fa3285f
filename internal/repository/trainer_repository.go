package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/haise314/exam-management-system/internal/models"
)

// TrainerRepository manages persistence for trainers.
type TrainerRepository struct {
	db *sqlx.DB
}

// NewTrainerRepository constructs a TrainerRepository.
func NewTrainerRepository(db *sqlx.DB) *TrainerRepository {
	return &TrainerRepository{db: db}
}

// List returns trainers matching the filter.
func (r *TrainerRepository) List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, error) {
	query := `SELECT id, name, class_assigned, contact_email, hire_date, created_at, updated_at
        FROM trainers WHERE 1=1`
	var args []interface{}
	if filter.Search != "" {
		query += " AND (LOWER(name) LIKE ? OR LOWER(COALESCE(contact_email, '')) LIKE ?)"
		search := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, search, search)
	}
	query += " ORDER BY name ASC"

	var trainers []models.Trainer
	if err := r.db.SelectContext(ctx, &trainers, query, args...); err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	return trainers, nil
}

// FindByID returns a single trainer.
func (r *TrainerRepository) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	var trainer models.Trainer
	const query = `SELECT id, name, class_assigned, contact_email, hire_date, created_at, updated_at
        FROM trainers WHERE id = ?`
	if err := r.db.GetContext(ctx, &trainer, query, id); err != nil {
		return nil, err
	}
	return &trainer, nil
}

// Create inserts a new trainer.
func (r *TrainerRepository) Create(ctx context.Context, trainer *models.Trainer) error {
	if trainer.ID == "" {
		trainer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	trainer.CreatedAt = now
	trainer.UpdatedAt = now
	const query = `INSERT INTO trainers (id, name, class_assigned, contact_email, hire_date, created_at, updated_at)
        VALUES (:id, :name, :class_assigned, :contact_email, :hire_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, trainer); err != nil {
		return fmt.Errorf("insert trainer: %w", err)
	}
	return nil
}

// Update persists trainer field changes.
func (r *TrainerRepository) Update(ctx context.Context, trainer *models.Trainer) error {
	trainer.UpdatedAt = time.Now().UTC()
	const query = `UPDATE trainers SET name = :name, class_assigned = :class_assigned,
        contact_email = :contact_email, hire_date = :hire_date, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, trainer); err != nil {
		return fmt.Errorf("update trainer: %w", err)
	}
	return nil
}

// Delete removes a trainer permanently.
func (r *TrainerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trainers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete trainer: %w", err)
	}
	return nil
}
