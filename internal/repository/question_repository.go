package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/haise314/exam-management-system/internal/codec"
	"github.com/haise314/exam-management-system/internal/models"
)

// QuestionRepository manages persistence for exam questions.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository constructs a QuestionRepository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

const questionColumns = `id, exam_id, question_text, option_a, option_b, option_c, option_d, correct_answer, points, question_type, created_at`

// ListByExam returns an exam's questions in insertion order.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID string) ([]models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE exam_id = ? ORDER BY created_at ASC, id ASC`
	var questions []models.Question
	if err := r.db.SelectContext(ctx, &questions, query, examID); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// ListEncodedByExam returns the exam-taking view of the question set:
// options and the correct marker packed into the legacy encoded string.
// A row whose stored letter cannot be encoded aborts the load rather
// than travel on malformed.
func (r *QuestionRepository) ListEncodedByExam(ctx context.Context, examID string) ([]models.ExamQuestion, error) {
	questions, err := r.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	encoded := make([]models.ExamQuestion, 0, len(questions))
	for _, q := range questions {
		opts := codec.Options{"A": q.OptionA, "B": q.OptionB, "C": q.OptionC, "D": q.OptionD}
		packed, err := codec.Encode(opts, q.CorrectAnswer)
		if err != nil {
			return nil, fmt.Errorf("encode question %s: %w", q.ID, err)
		}
		encoded = append(encoded, models.ExamQuestion{
			ID:             q.ID,
			QuestionText:   q.QuestionText,
			EncodedOptions: packed,
			Points:         q.Points,
		})
	}
	return encoded, nil
}

// CountByExam returns the number of questions attached to an exam.
func (r *QuestionRepository) CountByExam(ctx context.Context, examID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM questions WHERE exam_id = ?`, examID); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	if question.Points <= 0 {
		question.Points = 1
	}
	if question.QuestionType == "" {
		question.QuestionType = "multiple_choice"
	}
	question.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO questions (id, exam_id, question_text, option_a, option_b, option_c, option_d, correct_answer, points, question_type, created_at)
        VALUES (:id, :exam_id, :question_text, :option_a, :option_b, :option_c, :option_d, :correct_answer, :points, :question_type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// Update rewrites a question's content.
func (r *QuestionRepository) Update(ctx context.Context, question *models.Question) error {
	const query = `UPDATE questions SET question_text = :question_text, option_a = :option_a,
        option_b = :option_b, option_c = :option_c, option_d = :option_d,
        correct_answer = :correct_answer, points = :points, question_type = :question_type
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return nil
}

// Delete removes a question permanently.
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}
