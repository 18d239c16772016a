package models

import "time"

// Answer defines the answer model based on the 'answers' table
type Answer struct {
	ID         int64     `db:"id"`
	Content    string    `db:"content"`
	AuthorID   int64     `db:"author_id"`
	QuestionID int64     `db:"question_id"`
	CreatedAt  time.Time `db:"created_at"`

	Author *User
	Images []Image
}

// NewAnswer is the input to answer creation
type NewAnswer struct {
	Content    string
	AuthorID   int64
	QuestionID int64
	Images     []Image // Filename and Path set
}
