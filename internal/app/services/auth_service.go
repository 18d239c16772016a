package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	authz "github.com/yigit/classqa/internal/app/auth"
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/app/repositories"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/auth"
	"github.com/yigit/classqa/internal/pkg/helpers"
)

// AuthService handles registration, login and the caller's own account
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and signs the caller in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" {
		return nil, apperrors.NewValidationError("email, password and name are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         models.ParseRole(req.Role),
	}
	// Display settings exist only for students
	if user.Role == models.RoleStudent {
		user.Nickname = helpers.TrimToNil(req.Nickname)
		if req.ShowNickname != nil {
			user.ShowNickname = *req.ShowNickname
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "email is already registered")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return s.authResponse(user)
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *authServiceImpl) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.jwtService.GenerateToken(auth.Identity{
		ID:    user.ID,
		Email: user.Email,
		Role:  string(user.Role),
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to sign token")
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	}, nil
}

// GetCurrentUser loads the caller's account
func (s *authServiceImpl) GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateProfile changes a student's nickname settings. Absent fields keep
// their value and an empty nickname clears it.
func (s *authServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := authz.CanUpdateProfile(user); err != nil {
		return nil, err
	}

	update := models.ProfileUpdate{ShowNickname: req.ShowNickname}
	if req.Nickname != nil {
		update.Nickname = helpers.TrimToNil(req.Nickname)
		update.ClearNickname = update.Nickname == nil
	}

	updated, err := s.userRepo.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	s.logger.Info().Int64("userID", userID).Msg("Profile updated")
	resp := dto.NewUserResponse(updated)
	return &resp, nil
}
