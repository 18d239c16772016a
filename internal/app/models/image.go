package models

import "time"

// Image is an uploaded file attached to exactly one question or answer
type Image struct {
	ID         int64     `db:"id"`
	Filename   string    `db:"filename"`
	Path       string    `db:"path"`
	QuestionID *int64    `db:"question_id"`
	AnswerID   *int64    `db:"answer_id"`
	CreatedAt  time.Time `db:"created_at"`
}
