package models

import "time"

// Lecture defines the lecture model based on the 'lectures' table
type Lecture struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	TeacherID   int64     `db:"teacher_id"`
	CreatedAt   time.Time `db:"created_at"`

	// Populated by list and detail queries
	Teacher       *User
	QuestionCount int
}
