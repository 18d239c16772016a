package models

import "time"

// Question defines the question model based on the 'questions' table
type Question struct {
	ID           int64     `db:"id"`
	Title        string    `db:"title"`
	Content      string    `db:"content"`
	AuthorID     int64     `db:"author_id"`
	LectureID    int64     `db:"lecture_id"`
	Resolved     bool      `db:"resolved"`
	ShowNickname bool      `db:"show_nickname"` // author's setting when the question was posted
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	// Relations, loaded by the repository
	Author  *User
	Tags    []Tag
	Answers []Answer
	Images  []Image
}

// HasAnyTag reports whether the question carries at least one of tagIDs
func (q *Question) HasAnyTag(tagIDs []int64) bool {
	for _, tag := range q.Tags {
		for _, id := range tagIDs {
			if tag.ID == id {
				return true
			}
		}
	}
	return false
}

// QuestionFilter narrows question listings. Nil or empty fields do not filter.
type QuestionFilter struct {
	LectureID *int64
	Resolved  *bool
	// OR semantics: a question matches when it has any of these tags
	TagIDs []int64
}

// NewQuestion is the input to question creation
type NewQuestion struct {
	Title        string
	Content      string
	AuthorID     int64
	LectureID    int64
	ShowNickname bool
	TagIDs       []int64
	Images       []Image // Filename and Path set
}
