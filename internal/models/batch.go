package models

import "time"

// Batch groups trainees under one training run.
type Batch struct {
	ID               string    `db:"id" json:"id"`
	BatchYear        string    `db:"batch_year" json:"batch_year"`
	NumTrainees      int       `db:"num_trainees" json:"num_trainees"`
	TrainingDuration string    `db:"training_duration" json:"training_duration"`
	TrainingLocation *string   `db:"training_location" json:"training_location,omitempty"`
	TrainerID        *string   `db:"trainer_id" json:"trainer_id,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// BatchFilter scopes batch listings.
type BatchFilter struct {
	BatchYear string
	TrainerID string
}
