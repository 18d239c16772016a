package services

import (
	"context"
	"fmt"
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

// QuestionService defines the interface for question operations. Every
// returned question is shaped for the calling viewer.
type QuestionService interface {
	ListQuestions(ctx context.Context, viewer authz.Principal, filter models.QuestionFilter) (*dto.QuestionListResponse, error)
	GetQuestion(ctx context.Context, viewer authz.Principal, id int64) (*dto.QuestionResponse, error)
	CreateQuestion(ctx context.Context, viewer authz.Principal, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	SetResolved(ctx context.Context, viewer authz.Principal, id int64, resolved bool) (*dto.QuestionResponse, error)
	UpdateTags(ctx context.Context, viewer authz.Principal, id int64, req *dto.UpdateQuestionTagsRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, viewer authz.Principal, id int64) error
}

// questionServiceImpl implements QuestionService
type questionServiceImpl struct {
	questionRepo repositories.IQuestionRepository
	lectureRepo  repositories.ILectureRepository
	tagRepo      repositories.ITagRepository
	userRepo     repositories.IUserRepository
	storage      filestorage.FileStorage
	visibility   *authz.Visibility
	events       EventPublisher
	logger       zerolog.Logger
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(
	questionRepo repositories.IQuestionRepository,
	lectureRepo repositories.ILectureRepository,
	tagRepo repositories.ITagRepository,
	userRepo repositories.IUserRepository,
	storage filestorage.FileStorage,
	visibility *authz.Visibility,
	events EventPublisher,
	logger zerolog.Logger,
) QuestionService {
	return &questionServiceImpl{
		questionRepo: questionRepo,
		lectureRepo:  lectureRepo,
		tagRepo:      tagRepo,
		userRepo:     userRepo,
		storage:      storage,
		visibility:   visibility,
		events:       publisherOrNop(events),
		logger:       logger,
	}
}

// ListQuestions returns questions newest first. Lecture and resolved filters
// run in the store; the tag filter (any of) runs here.
func (s *questionServiceImpl) ListQuestions(ctx context.Context, viewer authz.Principal, filter models.QuestionFilter) (*dto.QuestionListResponse, error) {
	questions, err := s.questionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing questions: %w", err)
	}

	if len(filter.TagIDs) > 0 {
		matched := questions[:0]
		for i := range questions {
			if questions[i].HasAnyTag(filter.TagIDs) {
				matched = append(matched, questions[i])
			}
		}
		questions = matched
	}

	return &dto.QuestionListResponse{Questions: s.visibility.ShapeQuestions(viewer, questions)}, nil
}

// GetQuestion returns a single question with its answers
func (s *questionServiceImpl) GetQuestion(ctx context.Context, viewer authz.Principal, id int64) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.visibility.ShapeQuestion(viewer, question)
	return &resp, nil
}

// CreateQuestion posts a question to a lecture. The author's current
// nickname setting is stored on the question.
func (s *questionServiceImpl) CreateQuestion(ctx context.Context, viewer authz.Principal, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError("title and content are required")
	}
	if req.LectureID <= 0 {
		return nil, apperrors.NewValidationError("lectureId is required")
	}

	exists, err := s.lectureRepo.LectureExists(ctx, req.LectureID)
	if err != nil {
		return nil, fmt.Errorf("error checking lecture: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrLectureNotFound
	}

	tagIDs, err := s.checkTags(ctx, req.LectureID, req.TagIDs)
	if err != nil {
		return nil, err
	}

	images, err := resolveImages(s.storage, req.Images)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading author: %w", err)
	}

	question, err := s.questionRepo.Create(ctx, models.NewQuestion{
		Title:        title,
		Content:      content,
		AuthorID:     viewer.ID,
		LectureID:    req.LectureID,
		ShowNickname: author.Role == models.RoleStudent && author.ShowNickname,
		TagIDs:       tagIDs,
		Images:       images,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("questionID", question.ID).Int64("lectureID", question.LectureID).Msg("Question created")
	s.events.Publish(websocket.EventQuestionCreated, question.LectureID, question.ID)

	resp := s.visibility.ShapeQuestion(viewer, question)
	return &resp, nil
}

// SetResolved marks a question resolved or unresolved
func (s *questionServiceImpl) SetResolved(ctx context.Context, viewer authz.Principal, id int64, resolved bool) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanResolveQuestion(viewer, question); err != nil {
		return nil, err
	}

	if err := s.questionRepo.SetResolved(ctx, id, resolved); err != nil {
		return nil, err
	}

	eventType := websocket.EventQuestionResolved
	if !resolved {
		eventType = websocket.EventQuestionUnresolved
	}
	s.events.Publish(eventType, question.LectureID, id)

	return s.reload(ctx, viewer, id)
}

// UpdateTags replaces the question's tags. All tags must belong to the
// question's lecture.
func (s *questionServiceImpl) UpdateTags(ctx context.Context, viewer authz.Principal, id int64, req *dto.UpdateQuestionTagsRequest) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanUpdateQuestionTags(viewer, question); err != nil {
		return nil, err
	}

	tagIDs, err := s.checkTags(ctx, question.LectureID, req.TagIDs)
	if err != nil {
		return nil, err
	}

	if err := s.questionRepo.ReplaceTags(ctx, id, tagIDs); err != nil {
		return nil, err
	}

	s.events.Publish(websocket.EventQuestionTagsUpdated, question.LectureID, id)
	return s.reload(ctx, viewer, id)
}

// DeleteQuestion removes a question with its answers and images
func (s *questionServiceImpl) DeleteQuestion(ctx context.Context, viewer authz.Principal, id int64) error {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanDeleteQuestion(viewer, question); err != nil {
		return err
	}

	filenames, err := s.questionRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Info().Int64("questionID", id).Int("images", len(filenames)).Msg("Question deleted")
	s.events.Publish(websocket.EventQuestionDeleted, question.LectureID, id)
	removeFiles(ctx, s.storage, s.logger, filenames)
	return nil
}

func (s *questionServiceImpl) reload(ctx context.Context, viewer authz.Principal, id int64) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.visibility.ShapeQuestion(viewer, question)
	return &resp, nil
}

// checkTags deduplicates tagIDs and verifies each belongs to lectureID
func (s *questionServiceImpl) checkTags(ctx context.Context, lectureID int64, tagIDs []int64) ([]int64, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	seen := make(map[int64]struct{}, len(tagIDs))
	unique := make([]int64, 0, len(tagIDs))
	for _, id := range tagIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	tags, err := s.tagRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("error loading tags: %w", err)
	}

	found := make(map[int64]int64, len(tags))
	for _, t := range tags {
		found[t.ID] = t.LectureID
	}
	for _, id := range unique {
		owner, ok := found[id]
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("tag %d does not exist", id))
		}
		if owner != lectureID {
			return nil, apperrors.NewValidationError(fmt.Sprintf("tag %d does not belong to lecture %d", id, lectureID))
		}
	}
	return unique, nil
}
