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

func newQuestionMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func questionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "exam_id", "question_text", "option_a", "option_b", "option_c", "option_d", "correct_answer", "points", "question_type", "created_at"})
}

func TestQuestionRepositoryListEncodedByExam(t *testing.T) {
	db, mock, cleanup := newQuestionMock(t)
	defer cleanup()
	repo := NewQuestionRepository(db)

	mock.ExpectQuery("SELECT id, exam_id, question_text").
		WithArgs("exam-1").
		WillReturnRows(questionRows().
			AddRow("q-1", "exam-1", "Pick B", "ant", "bee", "cat", "dog", "B", 1, "multiple_choice", time.Now()).
			AddRow("q-2", "exam-1", "Pick D", "1", "2", "3", "4", "D", 2, "multiple_choice", time.Now()))

	questions, err := repo.ListEncodedByExam(context.Background(), "exam-1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "A:ant|*B:bee|C:cat|D:dog", questions[0].EncodedOptions)
	assert.Equal(t, "A:1|B:2|C:3|*D:4", questions[1].EncodedOptions)
	assert.Equal(t, 2, questions[1].Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepositoryListEncodedRejectsBadRow(t *testing.T) {
	db, mock, cleanup := newQuestionMock(t)
	defer cleanup()
	repo := NewQuestionRepository(db)

	// A stored letter outside A-D must abort the load, not mis-score.
	mock.ExpectQuery("SELECT id, exam_id, question_text").
		WithArgs("exam-1").
		WillReturnRows(questionRows().
			AddRow("q-1", "exam-1", "Broken", "a", "b", "c", "d", "E", 1, "multiple_choice", time.Now()))

	_, err := repo.ListEncodedByExam(context.Background(), "exam-1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newQuestionMock(t)
	defer cleanup()
	repo := NewQuestionRepository(db)

	mock.ExpectExec("INSERT INTO questions").
		WithArgs(sqlmock.AnyArg(), "exam-1", "Pick A", "a", "b", "c", "d", "A", 1, "multiple_choice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	q := &models.Question{
		ExamID:        "exam-1",
		QuestionText:  "Pick A",
		OptionA:       "a",
		OptionB:       "b",
		OptionC:       "c",
		OptionD:       "d",
		CorrectAnswer: "A",
	}
	err := repo.Create(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}
