package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haise314/exam-management-system/internal/models"
	appErrors "github.com/haise314/exam-management-system/pkg/errors"
)

func newResultMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sampleResult() *models.Result {
	return &models.Result{
		TraineeID:        "trainee-1",
		ExamID:           "exam-1",
		Score:            3,
		TotalItems:       4,
		Percentage:       75,
		TimeSpentSeconds: 600,
		Status:           models.ResultStatusPassed,
	}
}

func TestResultRepositoryRecordFirstAttempt(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO results").
		WithArgs(sqlmock.AnyArg(), "trainee-1", "exam-1", 3, 4, 75.0, 600, sqlmock.AnyArg(), string(models.ResultStatusPassed)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE trainees SET exams_taken = exams_taken + 1")).
		WithArgs(sqlmock.AnyArg(), "trainee-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE trainees SET status = ?")).
		WithArgs(string(models.TraineeStatusCompleted), sqlmock.AnyArg(), "trainee-1", string(models.TraineeStatusActive), string(models.ExamStatusActive)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Record(context.Background(), sampleResult(), false)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryRecordDuplicateRollsBack(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO results").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: results.trainee_id, results.exam_id"))
	mock.ExpectRollback()

	err := repo.Record(context.Background(), sampleResult(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateAttempt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryRecordReplacesFailedAttempt(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE results SET score").
		WithArgs(3, 4, 75.0, 600, sqlmock.AnyArg(), string(models.ResultStatusPassed), "trainee-1", "exam-1", string(models.ResultStatusFailed)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE trainees SET status = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Record(context.Background(), sampleResult(), true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryRecordReplaceFallsBackToInsert(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	// No failed row to overwrite: the attempt is recorded fresh and the
	// counter moves.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE results SET score").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO results").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE trainees SET exams_taken = exams_taken + 1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE trainees SET status = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Record(context.Background(), sampleResult(), true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryRecordRollsBackOnCounterFailure(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO results").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE trainees SET exams_taken = exams_taken + 1")).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := repo.Record(context.Background(), sampleResult(), false)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryLast(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	taken := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "trainee_id", "exam_id", "score", "total_items", "percentage", "time_spent", "date_taken", "status"}).
		AddRow("res-1", "trainee-1", "exam-1", 2, 4, 50.0, 480, taken, string(models.ResultStatusFailed))
	mock.ExpectQuery("SELECT id, trainee_id, exam_id").
		WithArgs("trainee-1", "exam-1").
		WillReturnRows(rows)

	result, err := repo.Last(context.Background(), "trainee-1", "exam-1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, models.ResultStatusFailed, result.Status)
	assert.Equal(t, 50.0, result.Percentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryLastNoAttempt(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectQuery("SELECT id, trainee_id, exam_id").
		WithArgs("trainee-1", "exam-9").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	result, err := repo.Last(context.Background(), "trainee-1", "exam-9")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryListByTrainee(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	rows := sqlmock.NewRows([]string{"exam_title", "score", "total_items", "percentage", "date_taken", "time_spent", "status"}).
		AddRow("Module 1", 4, 4, 100.0, time.Now(), 300, string(models.ResultStatusPassed)).
		AddRow("Module 2", 1, 4, 25.0, time.Now(), 900, string(models.ResultStatusFailed))
	mock.ExpectQuery("SELECT e.title AS exam_title").
		WithArgs("trainee-1").
		WillReturnRows(rows)

	results, err := repo.ListByTrainee(context.Background(), "trainee-1")
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "Module 1", results[0].ExamTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}
