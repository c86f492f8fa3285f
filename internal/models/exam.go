package models

import "time"

// ExamStatus controls whether an exam can be taken.
type ExamStatus string

const (
	ExamStatusActive   ExamStatus = "Active"
	ExamStatusInactive ExamStatus = "Inactive"
)

// Exam is a timed multiple-choice test owned by a batch.
type Exam struct {
	ID               string     `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	ModuleNo         string     `db:"module_no" json:"module_no"`
	NumItems         int        `db:"num_items" json:"num_items"`
	TimeLimitMinutes int        `db:"time_limit" json:"time_limit"`
	BatchID          *string    `db:"batch_id" json:"batch_id,omitempty"`
	Status           ExamStatus `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// AvailableExam is an exam in a trainee's batch annotated with whether
// the trainee already has a graded result for it.
type AvailableExam struct {
	ID               string `db:"id" json:"id"`
	Title            string `db:"title" json:"title"`
	ModuleNo         string `db:"module_no" json:"module_no"`
	NumItems         int    `db:"num_items" json:"num_items"`
	TimeLimitMinutes int    `db:"time_limit" json:"time_limit"`
	Taken            bool   `db:"taken" json:"taken"`
}

// ExamFilter scopes exam listings.
type ExamFilter struct {
	BatchID string
	Status  ExamStatus
	Search  string
}
