package models

import "time"

// ResultStatus is the pass/fail verdict of a graded attempt.
type ResultStatus string

const (
	ResultStatusPassed ResultStatus = "Passed"
	ResultStatusFailed ResultStatus = "Failed"
)

// PassThreshold is the fixed passing percentage.
const PassThreshold = 75.0

// Result is the single graded outcome for a (trainee, exam) pair.
type Result struct {
	ID               string       `db:"id" json:"id"`
	TraineeID        string       `db:"trainee_id" json:"trainee_id"`
	ExamID           string       `db:"exam_id" json:"exam_id"`
	Score            int          `db:"score" json:"score"`
	TotalItems       int          `db:"total_items" json:"total_items"`
	Percentage       float64      `db:"percentage" json:"percentage"`
	TimeSpentSeconds int          `db:"time_spent" json:"time_spent"`
	DateTaken        time.Time    `db:"date_taken" json:"date_taken"`
	Status           ResultStatus `db:"status" json:"status"`
}

// TraineeResult joins a result with its exam title for history views.
type TraineeResult struct {
	ExamTitle        string       `db:"exam_title" json:"exam_title"`
	Score            int          `db:"score" json:"score"`
	TotalItems       int          `db:"total_items" json:"total_items"`
	Percentage       float64      `db:"percentage" json:"percentage"`
	DateTaken        time.Time    `db:"date_taken" json:"date_taken"`
	TimeSpentSeconds int          `db:"time_spent" json:"time_spent"`
	Status           ResultStatus `db:"status" json:"status"`
}

// ExamScore is what the scoring engine reports back to the caller.
type ExamScore struct {
	Score      int     `json:"score"`
	TotalItems int     `json:"total_items"`
	Percentage float64 `json:"percentage"`
}
