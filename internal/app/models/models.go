package models

// RoleType defines the user role type
type RoleType string

const (
	RoleTeacher RoleType = "TEACHER"
	RoleStudent RoleType = "STUDENT"
)

// ParseRole maps requested role text onto a role. Only the exact string
// TEACHER registers a teacher; anything else is a student.
func ParseRole(role string) RoleType {
	if RoleType(role) == RoleTeacher {
		return RoleTeacher
	}
	return RoleStudent
}

// IsTeacher reports whether the role is TEACHER
func (r RoleType) IsTeacher() bool {
	return r == RoleTeacher
}
