// Package seed creates optional demo data on startup
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/auth"
)

// Users is the user store surface the seeder needs
type Users interface {
	GetByEmail(ctx context.Context, email string) (*appModels.User, error)
	Create(ctx context.Context, user *appModels.User) error
}

// Lectures is the lecture store surface the seeder needs
type Lectures interface {
	List(ctx context.Context) ([]appModels.Lecture, error)
	Create(ctx context.Context, lecture *appModels.Lecture) error
}

// Options describes the demo teacher and lecture
type Options struct {
	TeacherEmail    string
	TeacherPassword string
	TeacherName     string
	LectureName     string
}

// CreateDefaultData makes sure a demo teacher and one lecture owned by that
// teacher exist. Running it again changes nothing.
func CreateDefaultData(ctx context.Context, users Users, lectures Lectures, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (demo teacher and lecture)...")

	email := strings.ToLower(strings.TrimSpace(opts.TeacherEmail))
	teacher, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		hash, hashErr := auth.HashPassword(opts.TeacherPassword)
		if hashErr != nil {
			return fmt.Errorf("failed to hash demo teacher password: %w", hashErr)
		}
		teacher = &appModels.User{
			Email:        email,
			PasswordHash: hash,
			Name:         opts.TeacherName,
			Role:         appModels.RoleTeacher,
		}
		if err := users.Create(ctx, teacher); err != nil {
			return fmt.Errorf("failed to create demo teacher: %w", err)
		}
		lgr.Info().Str("email", email).Int64("userID", teacher.ID).Msg("Demo teacher created")
	case err != nil:
		return fmt.Errorf("failed to look up demo teacher: %w", err)
	case !teacher.Role.IsTeacher():
		lgr.Warn().Str("email", email).Msg("Seed email belongs to a student, skipping demo lecture")
		return nil
	}

	existing, err := lectures.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list lectures: %w", err)
	}
	for _, l := range existing {
		if l.TeacherID == teacher.ID && l.Name == opts.LectureName {
			lgr.Debug().Int64("lectureID", l.ID).Msg("Demo lecture already present")
			return nil
		}
	}

	lecture := &appModels.Lecture{Name: opts.LectureName, TeacherID: teacher.ID}
	if err := lectures.Create(ctx, lecture); err != nil {
		return fmt.Errorf("failed to create demo lecture: %w", err)
	}
	lgr.Info().Int64("lectureID", lecture.ID).Str("name", lecture.Name).Msg("Demo lecture created")
	return nil
}
