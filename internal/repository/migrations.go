package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is the canonical relational layout. Questions carry first-class
// option columns; the delimited legacy encoding exists only at the
// data-access boundary. Results are unique per (trainee, exam): the
// store keeps exactly one graded attempt per pair.
const schema = `
CREATE TABLE IF NOT EXISTS trainers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    class_assigned TEXT,
    contact_email TEXT UNIQUE,
    hire_date DATE NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS batches (
    id TEXT PRIMARY KEY,
    batch_year TEXT NOT NULL,
    num_trainees INTEGER NOT NULL DEFAULT 0 CHECK (num_trainees >= 0),
    training_duration TEXT NOT NULL,
    training_location TEXT,
    trainer_id TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    FOREIGN KEY (trainer_id) REFERENCES trainers(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS trainees (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    id_no TEXT UNIQUE NOT NULL,
    uli TEXT UNIQUE,
    batch_id TEXT,
    batch_year TEXT NOT NULL,
    exams_taken INTEGER NOT NULL DEFAULT 0 CHECK (exams_taken >= 0),
    status TEXT NOT NULL DEFAULT 'Active' CHECK (status IN ('Active', 'Inactive', 'Completed')),
    remarks TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS exams (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    module_no TEXT NOT NULL,
    num_items INTEGER NOT NULL CHECK (num_items > 0),
    time_limit INTEGER NOT NULL CHECK (time_limit > 0),
    batch_id TEXT,
    status TEXT NOT NULL DEFAULT 'Active' CHECK (status IN ('Active', 'Inactive')),
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    exam_id TEXT NOT NULL,
    question_text TEXT NOT NULL,
    option_a TEXT NOT NULL,
    option_b TEXT NOT NULL,
    option_c TEXT NOT NULL,
    option_d TEXT NOT NULL,
    correct_answer TEXT NOT NULL CHECK (correct_answer IN ('A', 'B', 'C', 'D')),
    points INTEGER NOT NULL DEFAULT 1 CHECK (points > 0),
    question_type TEXT NOT NULL DEFAULT 'multiple_choice',
    created_at DATETIME NOT NULL,
    FOREIGN KEY (exam_id) REFERENCES exams(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS results (
    id TEXT PRIMARY KEY,
    trainee_id TEXT NOT NULL,
    exam_id TEXT NOT NULL,
    score INTEGER NOT NULL CHECK (score >= 0),
    total_items INTEGER NOT NULL CHECK (total_items > 0),
    percentage REAL NOT NULL CHECK (percentage >= 0 AND percentage <= 100),
    time_spent INTEGER NOT NULL CHECK (time_spent >= 0),
    date_taken DATETIME NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('Passed', 'Failed')),
    FOREIGN KEY (trainee_id) REFERENCES trainees(id) ON DELETE CASCADE,
    FOREIGN KEY (exam_id) REFERENCES exams(id) ON DELETE CASCADE,
    UNIQUE (trainee_id, exam_id)
);

CREATE INDEX IF NOT EXISTS idx_questions_exam ON questions(exam_id);
CREATE INDEX IF NOT EXISTS idx_results_trainee ON results(trainee_id);
CREATE INDEX IF NOT EXISTS idx_exams_batch ON exams(batch_id);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
