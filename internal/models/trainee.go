package models

import "time"

// TraineeStatus tracks where a trainee is in the programme.
type TraineeStatus string

const (
	TraineeStatusActive    TraineeStatus = "Active"
	TraineeStatusInactive  TraineeStatus = "Inactive"
	TraineeStatusCompleted TraineeStatus = "Completed"
)

// Trainee is an enrolled exam taker. IDNo doubles as the login key.
// ExamsTaken and Status are derived: only the scoring path mutates them.
type Trainee struct {
	ID         string        `db:"id" json:"id"`
	Name       string        `db:"name" json:"name"`
	IDNo       string        `db:"id_no" json:"id_no"`
	ULI        *string       `db:"uli" json:"uli,omitempty"`
	BatchID    *string       `db:"batch_id" json:"batch_id,omitempty"`
	BatchYear  string        `db:"batch_year" json:"batch_year"`
	ExamsTaken int           `db:"exams_taken" json:"exams_taken"`
	Status     TraineeStatus `db:"status" json:"status"`
	Remarks    *string       `db:"remarks" json:"remarks,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

// TraineeFilter scopes trainee listings.
type TraineeFilter struct {
	BatchID string
	Status  TraineeStatus
	Search  string
}
