package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Role         RoleType  `db:"role"`
	Nickname     *string   `db:"nickname"`      // students only
	ShowNickname bool      `db:"show_nickname"` // students only
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// PublicNickname returns the nickname when the user has one and chose to show it
func (u *User) PublicNickname() (string, bool) {
	if u == nil || !u.ShowNickname || u.Nickname == nil || *u.Nickname == "" {
		return "", false
	}
	return *u.Nickname, true
}

// ProfileUpdate carries optional profile changes. Nil fields are left unchanged;
// ClearNickname removes the nickname.
type ProfileUpdate struct {
	Nickname      *string
	ClearNickname bool
	ShowNickname  *bool
}
