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

// TagController handles per-lecture tag endpoints
type TagController struct {
	tagService services.TagService
	logger     zerolog.Logger
}

// NewTagController creates a new TagController
func NewTagController(tagService services.TagService, logger zerolog.Logger) *TagController {
	return &TagController{
		tagService: tagService,
		logger:     logger,
	}
}

// ListTags lists a lecture's tags
// @Summary List lecture tags
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Success 200 {object} dto.TagListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /lectures/{id}/tags [get]
func (c *TagController) ListTags(ctx *gin.Context) {
	lectureID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	tags, err := c.tagService.ListTags(ctx.Request.Context(), lectureID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.TagListResponse{Tags: tags})
}

// CreateTag returns the lecture's tag with the given name, creating it if needed
// @Summary Get or create tag
// @Description Tag names are unique per lecture. Returns 201 when created and 200 when the tag already existed.
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Param request body dto.CreateTagRequest true "Tag name"
// @Success 200 {object} dto.TagEnvelope "Existing tag"
// @Success 201 {object} dto.TagEnvelope "Created tag"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Lecture not found"
// @Router /lectures/{id}/tags [post]
func (c *TagController) CreateTag(ctx *gin.Context) {
	lectureID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateTagRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tag, created, err := c.tagService.GetOrCreateTag(ctx.Request.Context(), lectureID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.TagEnvelope{Tag: *tag})
}

// DeleteTag removes a tag from a lecture and from every question carrying it
// @Summary Delete tag
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Param tagId path int true "Tag ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /lectures/{id}/tags/{tagId} [delete]
func (c *TagController) DeleteTag(ctx *gin.Context) {
	lectureID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	tagID, err := helpers.ParseIDParam(ctx, "tagId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.tagService.DeleteTag(ctx.Request.Context(), lectureID, tagID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "tag deleted"})
}
