package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstraintClassification(t *testing.T) {
	dup := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505", ConstraintName: UsersEmailKey})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: QuestionsLectureFK}

	assert.True(t, IsDuplicateConstraintError(dup, UsersEmailKey))
	assert.False(t, IsDuplicateConstraintError(dup, ImagesFilenameKey))
	assert.True(t, IsUniqueViolation(dup))
	assert.False(t, IsUniqueViolation(fk))

	assert.True(t, IsForeignKeyViolation(fk, QuestionsLectureFK))
	assert.True(t, IsForeignKeyViolation(fk, ""))
	assert.False(t, IsForeignKeyViolation(fk, AnswersQuestionFK))
	assert.False(t, IsForeignKeyViolation(errors.New("boom"), ""))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(fmt.Errorf("get lecture: %w", pgx.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("timeout")))
}
