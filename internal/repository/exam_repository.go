package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/haise314/exam-management-system/internal/models"
)

// ExamRepository manages persistence for exams.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

const examColumns = `id, title, module_no, num_items, time_limit, batch_id, status, created_at, updated_at`

// List returns exams matching the filter.
func (r *ExamRepository) List(ctx context.Context, filter models.ExamFilter) ([]models.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE 1=1`
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
		query += " AND (LOWER(title) LIKE ? OR LOWER(module_no) LIKE ?)"
		search := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, search, search)
	}
	query += " ORDER BY created_at DESC"

	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query, args...); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// FindByID returns a single exam regardless of status.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	var exam models.Exam
	query := `SELECT ` + examColumns + ` FROM exams WHERE id = ?`
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		return nil, err
	}
	return &exam, nil
}

// FindActive returns the exam only if it exists and is Active, nil
// otherwise. This is the detail lookup the exam-taking flow uses.
func (r *ExamRepository) FindActive(ctx context.Context, id string) (*models.Exam, error) {
	var exam models.Exam
	query := `SELECT ` + examColumns + ` FROM exams WHERE id = ? AND status = ?`
	if err := r.db.GetContext(ctx, &exam, query, id, models.ExamStatusActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active exam: %w", err)
	}
	return &exam, nil
}

// ListAvailable returns the exams of the trainee's batch, each marked
// with whether the trainee already holds a graded result for it.
func (r *ExamRepository) ListAvailable(ctx context.Context, traineeID string) ([]models.AvailableExam, error) {
	const query = `SELECT e.id, e.title, e.module_no, e.num_items, e.time_limit,
        CASE WHEN r.id IS NULL THEN 0 ELSE 1 END AS taken
        FROM exams e
        LEFT JOIN results r ON r.exam_id = e.id AND r.trainee_id = ?
        WHERE e.batch_id = (SELECT batch_id FROM trainees WHERE id = ?)
          AND e.status = ?
        ORDER BY e.module_no ASC, e.created_at ASC`

	var exams []models.AvailableExam
	if err := r.db.SelectContext(ctx, &exams, query, traineeID, traineeID, models.ExamStatusActive); err != nil {
		return nil, fmt.Errorf("list available exams: %w", err)
	}
	return exams, nil
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	if exam.Status == "" {
		exam.Status = models.ExamStatusActive
	}
	now := time.Now().UTC()
	exam.CreatedAt = now
	exam.UpdatedAt = now
	const query = `INSERT INTO exams (id, title, module_no, num_items, time_limit, batch_id, status, created_at, updated_at)
        VALUES (:id, :title, :module_no, :num_items, :time_limit, :batch_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("insert exam: %w", err)
	}
	return nil
}

// Update persists exam metadata changes.
func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	exam.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exams SET title = :title, module_no = :module_no, num_items = :num_items,
        time_limit = :time_limit, batch_id = :batch_id, status = :status, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	return nil
}

// SetStatus toggles an exam between Active and Inactive.
func (r *ExamRepository) SetStatus(ctx context.Context, id string, status models.ExamStatus) error {
	const query = `UPDATE exams SET status = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("set exam status: %w", err)
	}
	return nil
}

// Delete removes an exam; its questions and results cascade.
func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return nil
}
