package models

import "time"

// Trainer conducts training for one or more batches.
type Trainer struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	ClassAssigned *string   `db:"class_assigned" json:"class_assigned,omitempty"`
	ContactEmail  *string   `db:"contact_email" json:"contact_email,omitempty"`
	HireDate      time.Time `db:"hire_date" json:"hire_date"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// TrainerFilter scopes trainer listings.
type TrainerFilter struct {
	Search string
}
