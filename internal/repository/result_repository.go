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
	appErrors "github.com/haise314/exam-management-system/pkg/errors"
)

// ResultRepository manages persistence for graded exam results and the
// trainee aggregates derived from them.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs a ResultRepository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Last returns the graded result for the (trainee, exam) pair, or nil
// when the pair has never been attempted.
func (r *ResultRepository) Last(ctx context.Context, traineeID, examID string) (*models.Result, error) {
	var result models.Result
	const query = `SELECT id, trainee_id, exam_id, score, total_items, percentage, time_spent, date_taken, status
        FROM results WHERE trainee_id = ? AND exam_id = ?`
	if err := r.db.GetContext(ctx, &result, query, traineeID, examID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last result: %w", err)
	}
	return &result, nil
}

// ListByTrainee returns a trainee's result history, newest first.
func (r *ResultRepository) ListByTrainee(ctx context.Context, traineeID string) ([]models.TraineeResult, error) {
	const query = `SELECT e.title AS exam_title, r.score, r.total_items, r.percentage, r.date_taken, r.time_spent, r.status
        FROM results r
        JOIN exams e ON e.id = r.exam_id
        WHERE r.trainee_id = ?
        ORDER BY r.date_taken DESC`

	var results []models.TraineeResult
	if err := r.db.SelectContext(ctx, &results, query, traineeID); err != nil {
		return nil, fmt.Errorf("list trainee results: %w", err)
	}
	return results, nil
}

// Record persists a graded attempt and the trainee aggregates in one
// transaction: both land or neither does.
//
// With replace=false a second result for the same (trainee, exam) pair
// violates the unique constraint and surfaces as ErrDuplicateAttempt.
// With replace=true (a retake the eligibility checker has approved) a
// prior Failed row is overwritten in place; the exams_taken counter
// only moves on a fresh insert, so it stays the count of distinct
// graded exams.
func (r *ResultRepository) Record(ctx context.Context, result *models.Result, replace bool) (err error) {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.DateTaken.IsZero() {
		result.DateTaken = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record result tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	replaced := false
	if replace {
		const update = `UPDATE results SET score = ?, total_items = ?, percentage = ?, time_spent = ?, date_taken = ?, status = ?
            WHERE trainee_id = ? AND exam_id = ? AND status = ?`
		res, execErr := tx.ExecContext(ctx, update,
			result.Score, result.TotalItems, result.Percentage, result.TimeSpentSeconds,
			result.DateTaken, result.Status,
			result.TraineeID, result.ExamID, models.ResultStatusFailed,
		)
		if execErr != nil {
			err = fmt.Errorf("replace result: %w", execErr)
			return err
		}
		affected, _ := res.RowsAffected()
		replaced = affected > 0
	}

	if !replaced {
		const insert = `INSERT INTO results (id, trainee_id, exam_id, score, total_items, percentage, time_spent, date_taken, status)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		if _, execErr := tx.ExecContext(ctx, insert,
			result.ID, result.TraineeID, result.ExamID,
			result.Score, result.TotalItems, result.Percentage,
			result.TimeSpentSeconds, result.DateTaken, result.Status,
		); execErr != nil {
			if isUniqueViolation(execErr) {
				err = appErrors.Wrap(execErr, appErrors.ErrDuplicateAttempt.Code, appErrors.ErrDuplicateAttempt.Message)
				return err
			}
			err = fmt.Errorf("insert result: %w", execErr)
			return err
		}

		const bump = `UPDATE trainees SET exams_taken = exams_taken + 1, updated_at = ? WHERE id = ?`
		if _, execErr := tx.ExecContext(ctx, bump, time.Now().UTC(), result.TraineeID); execErr != nil {
			err = fmt.Errorf("increment exams taken: %w", execErr)
			return err
		}
	}

	// Derived status: a trainee completes once every Active exam of
	// their batch holds a graded result.
	const complete = `UPDATE trainees SET status = ?, updated_at = ?
        WHERE id = ? AND batch_id IS NOT NULL AND status = ?
          AND NOT EXISTS (
            SELECT 1 FROM exams e
            WHERE e.batch_id = trainees.batch_id AND e.status = ?
              AND NOT EXISTS (
                SELECT 1 FROM results res WHERE res.exam_id = e.id AND res.trainee_id = trainees.id))`
	if _, execErr := tx.ExecContext(ctx, complete,
		models.TraineeStatusCompleted, time.Now().UTC(),
		result.TraineeID, models.TraineeStatusActive, models.ExamStatusActive,
	); execErr != nil {
		err = fmt.Errorf("update trainee status: %w", execErr)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit record result tx: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
