package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	authz "github.com/yigit/classqa/internal/app/auth"
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/app/services"
	"github.com/yigit/classqa/internal/middleware"
	"github.com/yigit/classqa/internal/pkg/helpers"
)

// QuestionController handles question and answer endpoints
type QuestionController struct {
	questionService services.QuestionService
	answerService   services.AnswerService
	logger          zerolog.Logger
}

// NewQuestionController creates a new QuestionController
func NewQuestionController(questionService services.QuestionService, answerService services.AnswerService, logger zerolog.Logger) *QuestionController {
	return &QuestionController{
		questionService: questionService,
		answerService:   answerService,
		logger:          logger,
	}
}

// ListQuestions lists questions with optional filters
// @Summary List questions
// @Description Newest first. Answers inside each question are oldest first. Author names are shaped for the caller.
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param lectureId query int false "Lecture ID"
// @Param tags query string false "Comma separated tag IDs; a question matches if it has any of them"
// @Param resolved query bool false "Resolution state"
// @Success 200 {object} dto.QuestionListResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed filter"
// @Failure 401 {object} dto.ErrorResponse
// @Router /questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	viewer, err := middleware.GetPrincipal(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var filter models.QuestionFilter
	if filter.LectureID, err = helpers.ParseOptionalIDQuery(ctx, "lectureId"); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if filter.TagIDs, err = helpers.ParseIDListQuery(ctx, "tags"); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if filter.Resolved, err = helpers.ParseOptionalBoolQuery(ctx, "resolved"); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.questionService.ListQuestions(ctx.Request.Context(), viewer, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetQuestion returns one question with its answers
// @Summary Get question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	viewer, id, ok := c.viewerAndID(ctx)
	if !ok {
		return
	}

	question, err := c.questionService.GetQuestion(ctx.Request.Context(), viewer, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.QuestionEnvelope{Question: *question})
}

// CreateQuestion posts a question to a lecture
// @Summary Create question
// @Description Tags must belong to the lecture. Images reference files returned by the upload endpoint.
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuestionRequest true "Question data"
// @Success 201 {object} dto.QuestionEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Lecture not found"
// @Router /questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	viewer, err := middleware.GetPrincipal(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateQuestionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	question, err := c.questionService.CreateQuestion(ctx.Request.Context(), viewer, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.QuestionEnvelope{Question: *question})
}

// DeleteQuestion deletes a question with its answers and images
// @Summary Delete question
// @Description Only the author may delete a question.
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	viewer, id, ok := c.viewerAndID(ctx)
	if !ok {
		return
	}

	if err := c.questionService.DeleteQuestion(ctx.Request.Context(), viewer, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "question deleted"})
}

// ResolveQuestion marks a question resolved
// @Summary Resolve question
// @Description Teachers and the question's author only.
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionEnvelope
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/resolve [put]
func (c *QuestionController) ResolveQuestion(ctx *gin.Context) {
	c.setResolved(ctx, true)
}

// UnresolveQuestion marks a question unresolved
// @Summary Unresolve question
// @Description Teachers and the question's author only.
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionEnvelope
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/unresolve [put]
func (c *QuestionController) UnresolveQuestion(ctx *gin.Context) {
	c.setResolved(ctx, false)
}

func (c *QuestionController) setResolved(ctx *gin.Context, resolved bool) {
	viewer, id, ok := c.viewerAndID(ctx)
	if !ok {
		return
	}

	question, err := c.questionService.SetResolved(ctx.Request.Context(), viewer, id, resolved)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.QuestionEnvelope{Question: *question})
}

// UpdateQuestionTags replaces a question's tags
// @Summary Replace question tags
// @Description Author only. An empty list removes every tag.
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body dto.UpdateQuestionTagsRequest true "Tag IDs"
// @Success 200 {object} dto.QuestionEnvelope
// @Failure 400 {object} dto.ErrorResponse "Tag missing or from another lecture"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/tags [put]
func (c *QuestionController) UpdateQuestionTags(ctx *gin.Context) {
	viewer, id, ok := c.viewerAndID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateQuestionTagsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	question, err := c.questionService.UpdateTags(ctx.Request.Context(), viewer, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.QuestionEnvelope{Question: *question})
}

// AddAnswer posts an answer to a question
// @Summary Answer question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body dto.CreateAnswerRequest true "Answer data"
// @Success 201 {object} dto.AnswerEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/answers [post]
func (c *QuestionController) AddAnswer(ctx *gin.Context) {
	viewer, id, ok := c.viewerAndID(ctx)
	if !ok {
		return
	}

	var req dto.CreateAnswerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	answer, err := c.answerService.AddAnswer(ctx.Request.Context(), viewer, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.AnswerEnvelope{Answer: *answer})
}

// viewerAndID reads the caller and the :id path parameter, writing the error response on failure
func (c *QuestionController) viewerAndID(ctx *gin.Context) (viewer authz.Principal, id int64, ok bool) {
	viewer, err := middleware.GetPrincipal(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return viewer, 0, false
	}
	id, err = helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return viewer, 0, false
	}
	return viewer, id, true
}
