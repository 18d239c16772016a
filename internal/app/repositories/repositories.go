package repositories

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/classqa/internal/app/models"
)

// DBTX is the query surface shared by *pgxpool.Pool, pgx.Tx and pgxmock pools
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository     *UserRepository
	LectureRepository  *LectureRepository
	TagRepository      *TagRepository
	QuestionRepository *QuestionRepository
	AnswerRepository   *AnswerRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db),
		LectureRepository:  NewLectureRepository(db),
		TagRepository:      NewTagRepository(db),
		QuestionRepository: NewQuestionRepository(db),
		AnswerRepository:   NewAnswerRepository(db),
	}
}

// userColumns are selected, in this order, wherever a user row is joined in
var userColumns = []string{"u.id", "u.email", "u.name", "u.role", "u.nickname", "u.show_nickname", "u.created_at", "u.updated_at"}

// userDest returns scan targets matching userColumns
func userDest(u *models.User) []any {
	return []any{&u.ID, &u.Email, &u.Name, &u.Role, &u.Nickname, &u.ShowNickname, &u.CreatedAt, &u.UpdatedAt}
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
