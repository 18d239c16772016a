package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Constraint names declared in migrations
const (
	UsersEmailKey      = "users_email_key"
	ImagesFilenameKey  = "images_filename_key"
	TagsNameLectureKey = "tags_name_lecture_id_key"
	QuestionsLectureFK = "questions_lecture_id_fkey"
	QuestionTagsTagFK  = "question_tags_tag_id_fkey"
	AnswersQuestionFK  = "answers_question_id_fkey"
	LecturesTeacherFK  = "lectures_teacher_id_fkey"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports any unique violation regardless of constraint
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsForeignKeyViolation reports a foreign key violation on the named constraint,
// or on any constraint when constraintName is empty.
func IsForeignKeyViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != foreignKeyViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// IsNoRows reports whether a query returned no rows
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
