package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/logger"
)

// HandleAPIError maps err onto a status code and writes the error body.
// Unexpected errors are logged and answered with a generic message.
func HandleAPIError(c *gin.Context, err error) {
	status, code, fallback := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, fallback))
		return
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, apperrors.Message(err, fallback)))
}

func classify(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "validation failed"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeBadRequest, "bad request"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, apperrors.ErrInvalidCredentials.Error()
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "authentication required"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusForbidden, dto.ErrorCodeExpiredToken, "token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusForbidden, dto.ErrorCodeInvalidToken, "invalid token"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "permission denied"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "user not found"
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "email already exists"
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "resource already exists"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict, "conflict"
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "internal server error"
	}
}
