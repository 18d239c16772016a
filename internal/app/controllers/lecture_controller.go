package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/app/services"
	"github.com/yigit/classqa/internal/middleware"
	"github.com/yigit/classqa/internal/pkg/helpers"
)

// LectureController handles lecture endpoints
type LectureController struct {
	lectureService services.LectureService
	logger         zerolog.Logger
}

// NewLectureController creates a new LectureController
func NewLectureController(lectureService services.LectureService, logger zerolog.Logger) *LectureController {
	return &LectureController{
		lectureService: lectureService,
		logger:         logger,
	}
}

// ListLectures returns all lectures
// @Summary List lectures
// @Description Newest first, with the owning teacher and question count.
// @Tags lectures
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.LectureListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /lectures [get]
func (c *LectureController) ListLectures(ctx *gin.Context) {
	resp, err := c.lectureService.ListLectures(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetLecture returns one lecture
// @Summary Get lecture
// @Tags lectures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Success 200 {object} dto.LectureEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /lectures/{id} [get]
func (c *LectureController) GetLecture(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	lecture, err := c.lectureService.GetLecture(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.LectureEnvelope{Lecture: *lecture})
}

// CreateLecture creates a lecture
// @Summary Create lecture
// @Description Teachers only; the caller becomes the owner.
// @Tags lectures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLectureRequest true "Lecture data"
// @Success 201 {object} dto.LectureEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Caller is not a teacher"
// @Router /lectures [post]
func (c *LectureController) CreateLecture(ctx *gin.Context) {
	caller, err := middleware.GetPrincipal(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateLectureRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lecture, err := c.lectureService.CreateLecture(ctx.Request.Context(), caller, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.LectureEnvelope{Lecture: *lecture})
}

// DeleteLecture deletes a lecture with its questions, answers, tags and images
// @Summary Delete lecture
// @Description Only the owning teacher may delete a lecture.
// @Tags lectures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /lectures/{id} [delete]
func (c *LectureController) DeleteLecture(ctx *gin.Context) {
	caller, err := middleware.GetPrincipal(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.lectureService.DeleteLecture(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "lecture deleted"})
}
