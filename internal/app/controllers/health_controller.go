package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/classqa/internal/app/models/dto"
)

// HealthCheck reports that the API is up
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
