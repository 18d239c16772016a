package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/auth"
)

type memoryUsers struct {
	byEmail map[string]*appModels.User
	nextID  int64
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*appModels.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memoryUsers) Create(_ context.Context, user *appModels.User) error {
	m.nextID++
	user.ID = m.nextID
	m.byEmail[user.Email] = user
	return nil
}

type memoryLectures struct {
	lectures []appModels.Lecture
}

func (m *memoryLectures) List(context.Context) ([]appModels.Lecture, error) {
	return m.lectures, nil
}

func (m *memoryLectures) Create(_ context.Context, lecture *appModels.Lecture) error {
	lecture.ID = int64(len(m.lectures) + 1)
	m.lectures = append(m.lectures, *lecture)
	return nil
}

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	users := &memoryUsers{byEmail: map[string]*appModels.User{}}
	lectures := &memoryLectures{}
	opts := Options{
		TeacherEmail:    " Teacher@Example.com ",
		TeacherPassword: "changeme",
		TeacherName:     "Demo Teacher",
		LectureName:     "Algorithms",
	}

	require.NoError(t, CreateDefaultData(context.Background(), users, lectures, opts, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(context.Background(), users, lectures, opts, zerolog.Nop()))

	teacher := users.byEmail["teacher@example.com"]
	require.NotNil(t, teacher)
	assert.Equal(t, appModels.RoleTeacher, teacher.Role)
	assert.True(t, auth.CheckPassword(teacher.PasswordHash, "changeme"))

	require.Len(t, lectures.lectures, 1)
	assert.Equal(t, teacher.ID, lectures.lectures[0].TeacherID)
}

func TestCreateDefaultDataSkipsStudentAccount(t *testing.T) {
	users := &memoryUsers{byEmail: map[string]*appModels.User{
		"student@example.com": {ID: 7, Email: "student@example.com", Role: appModels.RoleStudent},
	}}
	lectures := &memoryLectures{}

	err := CreateDefaultData(context.Background(), users, lectures, Options{
		TeacherEmail: "student@example.com", TeacherPassword: "x", LectureName: "Algorithms",
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, lectures.lectures)
}
