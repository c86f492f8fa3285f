package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haise314/exam-management-system/internal/models"
)

func newExamMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func examRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "module_no", "num_items", "time_limit", "batch_id", "status", "created_at", "updated_at"})
}

func TestExamRepositoryFindActive(t *testing.T) {
	db, mock, cleanup := newExamMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectQuery("SELECT id, title, module_no").
		WithArgs("exam-1", string(models.ExamStatusActive)).
		WillReturnRows(examRows().AddRow("exam-1", "Safety Basics", "M01", 4, 30, "batch-1", "Active", time.Now(), time.Now()))

	exam, err := repo.FindActive(context.Background(), "exam-1")
	require.NoError(t, err)
	require.NotNil(t, exam)
	assert.Equal(t, 30, exam.TimeLimitMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryFindActiveMissingOrInactive(t *testing.T) {
	db, mock, cleanup := newExamMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectQuery("SELECT id, title, module_no").
		WithArgs("exam-9", string(models.ExamStatusActive)).
		WillReturnRows(examRows())

	exam, err := repo.FindActive(context.Background(), "exam-9")
	require.NoError(t, err)
	assert.Nil(t, exam)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryListAvailable(t *testing.T) {
	db, mock, cleanup := newExamMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "module_no", "num_items", "time_limit", "taken"}).
		AddRow("exam-1", "Safety Basics", "M01", 4, 30, true).
		AddRow("exam-2", "First Aid", "M02", 10, 45, false)
	mock.ExpectQuery("SELECT e.id, e.title, e.module_no").
		WithArgs("trainee-1", "trainee-1", string(models.ExamStatusActive)).
		WillReturnRows(rows)

	exams, err := repo.ListAvailable(context.Background(), "trainee-1")
	require.NoError(t, err)
	require.Len(t, exams, 2)
	assert.True(t, exams[0].Taken)
	assert.False(t, exams[1].Taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newExamMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectExec("INSERT INTO exams").
		WithArgs(sqlmock.AnyArg(), "Safety Basics", "M01", 4, 30, sqlmock.AnyArg(), string(models.ExamStatusActive), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	exam := &models.Exam{Title: "Safety Basics", ModuleNo: "M01", NumItems: 4, TimeLimitMinutes: 30}
	err := repo.Create(context.Background(), exam)
	require.NoError(t, err)
	assert.NotEmpty(t, exam.ID)
	assert.Equal(t, models.ExamStatusActive, exam.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
