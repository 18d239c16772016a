package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	authz "github.com/yigit/classqa/internal/app/auth"
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware for authentication
type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// JWTAuth validates the bearer token. A missing token is 401; a token that
// is malformed, forged or expired is 403. The token may also be passed as the
// "token" query parameter for websocket clients.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			token, err := auth.ExtractBearerToken(authHeader)
			if err != nil && !errors.Is(err, auth.ErrMissingToken) {
				c.AbortWithStatusJSON(http.StatusForbidden,
					dto.NewErrorResponse(dto.ErrorCodeInvalidToken, "invalid authorization header"))
				return
			}
			tokenString = token
		} else {
			tokenString = strings.TrimSpace(c.Query("token"))
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "authentication required"))
			return
		}

		identity, err := m.jwtService.ValidateAndExtractIdentity(tokenString)
		if err != nil {
			code, message := dto.ErrorCodeInvalidToken, "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code, message = dto.ErrorCodeExpiredToken, "token expired"
			}
			m.logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected token")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(code, message))
			return
		}

		c.Set(ContextUserID, identity.ID)
		c.Set(ContextEmail, identity.Email)
		c.Set(ContextRole, identity.Role)

		c.Next()
	}
}

// GetPrincipal returns the caller decoded by JWTAuth
func GetPrincipal(c *gin.Context) (authz.Principal, error) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return authz.Principal{}, apperrors.ErrUnauthenticated
	}
	id, ok := userID.(int64)
	if !ok {
		return authz.Principal{}, apperrors.ErrUnauthenticated
	}
	return authz.Principal{
		ID:    id,
		Email: c.GetString(ContextEmail),
		Role:  models.RoleType(c.GetString(ContextRole)),
	}, nil
}
