package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/dberrors"
	"github.com/yigit/classqa/internal/pkg/logger"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (*models.User, error)
}

// UserRepository handles database operations for users
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts user and fills in its ID and timestamps
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := psql.Insert("users").
		Columns("email", "password_hash", "name", "role", "nickname", "show_nickname").
		Values(user.Email, user.PasswordHash, user.Name, user.Role, user.Nickname, user.ShowNickname).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.UsersEmailKey) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id}, false)
}

// GetByEmail retrieves a user, including the password hash, by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.email": email}, true)
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq, withHash bool) (*models.User, error) {
	columns := userColumns
	if withHash {
		columns = append(append([]string{}, userColumns...), "u.password_hash")
	}

	sql, args, err := psql.Select(columns...).
		From("users u").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user := &models.User{}
	dest := userDest(user)
	if withHash {
		dest = append(dest, &user.PasswordHash)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(dest...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of update and returns the stored user
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (*models.User, error) {
	builder := psql.Update("users u").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"u.id": userID}).
		Suffix("RETURNING " + joinColumns(userColumns))

	switch {
	case update.ClearNickname:
		builder = builder.Set("nickname", nil)
	case update.Nickname != nil:
		builder = builder.Set("nickname", *update.Nickname)
	}
	if update.ShowNickname != nil {
		builder = builder.Set("show_nickname", *update.ShowNickname)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update profile query: %w", err)
	}

	user := &models.User{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(userDest(user)...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating user profile")
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return user, nil
}
