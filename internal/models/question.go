package models

import "time"

// Question is a four-option multiple-choice item. Options are stored as
// first-class columns; the legacy delimited encoding only appears at the
// data-access boundary. Questions are not versioned: editing one after
// attempts reference it changes history.
type Question struct {
	ID            string    `db:"id" json:"id"`
	ExamID        string    `db:"exam_id" json:"exam_id"`
	QuestionText  string    `db:"question_text" json:"question_text"`
	OptionA       string    `db:"option_a" json:"option_a"`
	OptionB       string    `db:"option_b" json:"option_b"`
	OptionC       string    `db:"option_c" json:"option_c"`
	OptionD       string    `db:"option_d" json:"option_d"`
	CorrectAnswer string    `db:"correct_answer" json:"correct_answer"`
	Points        int       `db:"points" json:"points"`
	QuestionType  string    `db:"question_type" json:"question_type"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ExamQuestion is the shape the exam-taking flow consumes: the options
// and correct marker travel as one encoded string so the correct answer
// never appears as a separate field outside the scoring path.
type ExamQuestion struct {
	ID             string `json:"id"`
	QuestionText   string `json:"question_text"`
	EncodedOptions string `json:"encoded_options"`
	Points         int    `json:"points"`
}
