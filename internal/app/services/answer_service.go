package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	authz "github.com/yigit/classqa/internal/app/auth"
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/app/repositories"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/filestorage"
	"github.com/yigit/classqa/internal/pkg/websocket"
)

// AnswerService defines the interface for answer operations
type AnswerService interface {
	AddAnswer(ctx context.Context, viewer authz.Principal, questionID int64, req *dto.CreateAnswerRequest) (*dto.AnswerResponse, error)
}

// answerServiceImpl implements AnswerService
type answerServiceImpl struct {
	answerRepo   repositories.IAnswerRepository
	questionRepo repositories.IQuestionRepository
	storage      filestorage.FileStorage
	visibility   *authz.Visibility
	events       EventPublisher
	logger       zerolog.Logger
}

// NewAnswerService creates a new AnswerService
func NewAnswerService(
	answerRepo repositories.IAnswerRepository,
	questionRepo repositories.IQuestionRepository,
	storage filestorage.FileStorage,
	visibility *authz.Visibility,
	events EventPublisher,
	logger zerolog.Logger,
) AnswerService {
	return &answerServiceImpl{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		storage:      storage,
		visibility:   visibility,
		events:       publisherOrNop(events),
		logger:       logger,
	}
}

// AddAnswer answers a question, resolved or not
func (s *answerServiceImpl) AddAnswer(ctx context.Context, viewer authz.Principal, questionID int64, req *dto.CreateAnswerRequest) (*dto.AnswerResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("content is required")
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	images, err := resolveImages(s.storage, req.Images)
	if err != nil {
		return nil, err
	}

	answer, err := s.answerRepo.Create(ctx, models.NewAnswer{
		Content:    content,
		AuthorID:   viewer.ID,
		QuestionID: questionID,
		Images:     images,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("answerID", answer.ID).Int64("questionID", questionID).Msg("Answer created")
	s.events.Publish(websocket.EventAnswerCreated, question.LectureID, questionID)

	resp := s.visibility.ShapeAnswer(viewer, answer)
	return &resp, nil
}
