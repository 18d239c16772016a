package websocket

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/classqa/internal/middleware"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/helpers"
)

// LectureLookup reports whether a lecture exists
type LectureLookup interface {
	LectureExists(ctx context.Context, lectureID int64) (bool, error)
}

// Handler upgrades lecture event subscriptions
type Handler struct {
	hub      *Hub
	lectures LectureLookup
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, lectures LectureLookup, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		lectures: lectures,
		upgrader: newUpgrader(allowedOrigins),
		logger:   logger,
	}
}

// Subscribe godoc
// @Summary Subscribe to lecture events
// @Description Upgrades to a WebSocket that streams {type, lectureId, questionId, timestamp} change events for one lecture. Browsers may pass the session token as the `token` query parameter.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Param token query string false "Session token for clients that cannot set headers"
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {object} dto.ErrorResponse "Invalid lecture ID"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Invalid or expired token"
// @Failure 404 {object} dto.ErrorResponse "Lecture not found"
// @Router /lectures/{id}/events [get]
func (h *Handler) Subscribe(c *gin.Context) {
	lectureID, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	userID := principal.ID

	exists, err := h.lectures.LectureExists(c.Request.Context(), lectureID)
	if err != nil {
		h.logger.Error().Err(err).Int64("lectureID", lectureID).Msg("Failed to look up lecture for subscription")
		middleware.HandleAPIError(c, err)
		return
	}
	if !exists {
		middleware.HandleAPIError(c, apperrors.ErrLectureNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		h.logger.Warn().Err(err).Int64("lectureID", lectureID).Int64("userID", userID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 64),
		userID:    userID,
		lectureID: lectureID,
		logger:    h.logger,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
