package auth

import (
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/pkg/apperrors"
)

// Authorization errors
var (
	ErrNotTeacher         = apperrors.NewForbiddenError("only teachers can perform this action")
	ErrNotLectureOwner    = apperrors.NewForbiddenError("only the lecture's teacher can delete it")
	ErrNotQuestionAuthor  = apperrors.NewForbiddenError("only the question's author can perform this action")
	ErrCannotResolve      = apperrors.NewForbiddenError("only a teacher or the question's author can change its resolved state")
	ErrProfileStudentOnly = apperrors.NewForbiddenError("only students can update display settings")
)

// Principal is the authenticated caller as decoded from the session token
type Principal struct {
	ID    int64
	Email string
	Role  models.RoleType
}

// IsTeacher reports whether the caller is a teacher
func (p Principal) IsTeacher() bool {
	return p.Role == models.RoleTeacher
}

// CanCreateLecture checks that the caller is a teacher
func CanCreateLecture(p Principal) error {
	if !p.IsTeacher() {
		return ErrNotTeacher
	}
	return nil
}

// CanDeleteLecture checks that the caller is the teacher who owns the lecture
func CanDeleteLecture(p Principal, lecture *models.Lecture) error {
	if !p.IsTeacher() {
		return ErrNotTeacher
	}
	if lecture.TeacherID != p.ID {
		return ErrNotLectureOwner
	}
	return nil
}

// CanResolveQuestion allows any teacher and the question's author
func CanResolveQuestion(p Principal, question *models.Question) error {
	if p.IsTeacher() || question.AuthorID == p.ID {
		return nil
	}
	return ErrCannotResolve
}

// CanDeleteQuestion allows only the question's author
func CanDeleteQuestion(p Principal, question *models.Question) error {
	if question.AuthorID != p.ID {
		return ErrNotQuestionAuthor
	}
	return nil
}

// CanUpdateQuestionTags allows only the question's author
func CanUpdateQuestionTags(p Principal, question *models.Question) error {
	return CanDeleteQuestion(p, question)
}

// CanUpdateProfile allows students only. The stored user is checked rather
// than the token so a stale token cannot edit a changed account.
func CanUpdateProfile(user *models.User) error {
	if user.Role != models.RoleStudent {
		return ErrProfileStudentOnly
	}
	return nil
}
