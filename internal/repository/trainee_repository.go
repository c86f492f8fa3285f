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

// TraineeRepository manages persistence for trainees.
type TraineeRepository struct {
	db *sqlx.DB
}

// NewTraineeRepository constructs a TraineeRepository.
func NewTraineeRepository(db *sqlx.DB) *TraineeRepository {
	return &TraineeRepository{db: db}
}

const traineeColumns = `id, name, id_no, uli, batch_id, batch_year, exams_taken, status, remarks, created_at, updated_at`

// List returns trainees matching the filter.
func (r *TraineeRepository) List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, error) {
	query := `SELECT ` + traineeColumns + ` FROM trainees WHERE 1=1`
	var args []interface{}
	if filter.BatchID != "" {
		query += " AND batch_id = ?"
		args = append(args, filter.BatchID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		query += " AND (LOWER(name) LIKE ? OR LOWER(id_no) LIKE ?)"
		search := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, search, search)
	}
	query += " ORDER BY name ASC"

	var trainees []models.Trainee
	if err := r.db.SelectContext(ctx, &trainees, query, args...); err != nil {
		return nil, fmt.Errorf("list trainees: %w", err)
	}
	return trainees, nil
}

// FindByID returns a single trainee.
func (r *TraineeRepository) FindByID(ctx context.Context, id string) (*models.Trainee, error) {
	var trainee models.Trainee
	query := `SELECT ` + traineeColumns + ` FROM trainees WHERE id = ?`
	if err := r.db.GetContext(ctx, &trainee, query, id); err != nil {
		return nil, err
	}
	return &trainee, nil
}

// FindByIDNo looks a trainee up by the unique login key.
func (r *TraineeRepository) FindByIDNo(ctx context.Context, idNo string) (*models.Trainee, error) {
	var trainee models.Trainee
	query := `SELECT ` + traineeColumns + ` FROM trainees WHERE id_no = ?`
	if err := r.db.GetContext(ctx, &trainee, query, idNo); err != nil {
		return nil, err
	}
	return &trainee, nil
}

// Create inserts a new trainee.
func (r *TraineeRepository) Create(ctx context.Context, trainee *models.Trainee) error {
	if trainee.ID == "" {
		trainee.ID = uuid.NewString()
	}
	if trainee.Status == "" {
		trainee.Status = models.TraineeStatusActive
	}
	now := time.Now().UTC()
	trainee.CreatedAt = now
	trainee.UpdatedAt = now
	const query = `INSERT INTO trainees (id, name, id_no, uli, batch_id, batch_year, exams_taken, status, remarks, created_at, updated_at)
        VALUES (:id, :name, :id_no, :uli, :batch_id, :batch_year, :exams_taken, :status, :remarks, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, trainee); err != nil {
		return fmt.Errorf("insert trainee: %w", err)
	}
	return nil
}

// Update persists admin-editable trainee fields. The derived columns
// (exams_taken, status transitions on grading) are owned by the result
// repository's transaction and are not written here.
func (r *TraineeRepository) Update(ctx context.Context, trainee *models.Trainee) error {
	trainee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE trainees SET name = :name, id_no = :id_no, uli = :uli,
        batch_id = :batch_id, batch_year = :batch_year, remarks = :remarks, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, trainee); err != nil {
		return fmt.Errorf("update trainee: %w", err)
	}
	return nil
}

// Delete removes a trainee; their results cascade.
func (r *TraineeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trainees WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete trainee: %w", err)
	}
	return nil
}
