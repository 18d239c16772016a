package models

import "time"

// Tag is a label scoped to one lecture; names are unique per lecture
type Tag struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	LectureID int64     `db:"lecture_id"`
	CreatedAt time.Time `db:"created_at"`
}
