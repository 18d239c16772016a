package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/app/services"
	"github.com/yigit/classqa/internal/middleware"
	"github.com/yigit/classqa/internal/pkg/apperrors"
)

// multipart framing allowance on top of the file ceiling
const multipartOverhead int64 = 1 << 20

// UploadController handles image uploads
type UploadController struct {
	uploadService services.UploadService
	maxBodyBytes  int64
	logger        zerolog.Logger
}

// NewUploadController creates a new UploadController. maxFileBytes bounds the
// request body before the service applies its own size check.
func NewUploadController(uploadService services.UploadService, maxFileBytes int64, logger zerolog.Logger) *UploadController {
	if maxFileBytes <= 0 {
		maxFileBytes = services.DefaultMaxUploadSize
	}
	return &UploadController{
		uploadService: uploadService,
		maxBodyBytes:  maxFileBytes + multipartOverhead,
		logger:        logger,
	}
}

// UploadImage stores an image for later attachment
// @Summary Upload image
// @Description Accepts JPEG, PNG, GIF and WebP content up to the configured ceiling. The returned filename is what questions and answers reference.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "Missing, oversized or non-image file"
// @Failure 401 {object} dto.ErrorResponse
// @Router /uploads [post]
func (c *UploadController) UploadImage(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxBodyBytes)

	file, err := ctx.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.HandleAPIError(ctx, apperrors.ErrFileTooLarge)
			return
		}
		c.logger.Warn().Err(err).Msg("Upload request without a readable image field")
		middleware.HandleAPIError(ctx, apperrors.ErrFileMissing)
		return
	}

	image, err := c.uploadService.UploadImage(ctx.Request.Context(), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.UploadResponse{Image: *image})
}

// DeleteImage removes an uploaded file
// @Summary Delete uploaded image
// @Tags uploads
// @Produce json
// @Security BearerAuth
// @Param filename path string true "Stored filename"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /uploads/{filename} [delete]
func (c *UploadController) DeleteImage(ctx *gin.Context) {
	if err := c.uploadService.DeleteImage(ctx.Request.Context(), ctx.Param("filename")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "image deleted"})
}
