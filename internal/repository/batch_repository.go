package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/haise314/exam-management-system/internal/models"
)

// BatchRepository manages persistence for training batches.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs a BatchRepository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// List returns batches matching the filter.
func (r *BatchRepository) List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, error) {
	query := `SELECT id, batch_year, num_trainees, training_duration, training_location, trainer_id, created_at, updated_at
        FROM batches WHERE 1=1`
	var args []interface{}
	if filter.BatchYear != "" {
		query += " AND batch_year = ?"
		args = append(args, filter.BatchYear)
	}
	if filter.TrainerID != "" {
		query += " AND trainer_id = ?"
		args = append(args, filter.TrainerID)
	}
	query += " ORDER BY batch_year DESC, created_at DESC"

	var batches []models.Batch
	if err := r.db.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// FindByID returns a single batch.
func (r *BatchRepository) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	var batch models.Batch
	const query = `SELECT id, batch_year, num_trainees, training_duration, training_location, trainer_id, created_at, updated_at
        FROM batches WHERE id = ?`
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Create inserts a new batch.
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	batch.CreatedAt = now
	batch.UpdatedAt = now
	const query = `INSERT INTO batches (id, batch_year, num_trainees, training_duration, training_location, trainer_id, created_at, updated_at)
        VALUES (:id, :batch_year, :num_trainees, :training_duration, :training_location, :trainer_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, batch); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// Update persists batch field changes.
func (r *BatchRepository) Update(ctx context.Context, batch *models.Batch) error {
	batch.UpdatedAt = time.Now().UTC()
	const query = `UPDATE batches SET batch_year = :batch_year, num_trainees = :num_trainees,
        training_duration = :training_duration, training_location = :training_location,
        trainer_id = :trainer_id, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, batch); err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return nil
}

// Delete removes a batch. Owned exams cascade; trainees keep their row
// with a nulled batch reference.
func (r *BatchRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}
