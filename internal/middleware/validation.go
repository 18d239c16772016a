package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/pkg/logger"
)

// BindJSON binds and validates the request body into obj. On failure it
// writes a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		message := dto.HandleValidationError(err)
		logger.Warn().Str("path", c.Request.URL.Path).Str("reason", message).Msg("Invalid request body")
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, message))
		return false
	}
	return true
}
