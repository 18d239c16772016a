package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/app/repositories"
	"github.com/yigit/classqa/internal/pkg/apperrors"
)

// TagService defines the interface for per-lecture tag operations
type TagService interface {
	ListTags(ctx context.Context, lectureID int64) ([]dto.TagResponse, error)
	// GetOrCreateTag reports whether a new tag was created
	GetOrCreateTag(ctx context.Context, lectureID int64, req *dto.CreateTagRequest) (*dto.TagResponse, bool, error)
	DeleteTag(ctx context.Context, lectureID, tagID int64) error
}

// tagServiceImpl implements TagService
type tagServiceImpl struct {
	tagRepo repositories.ITagRepository
	logger  zerolog.Logger
}

// NewTagService creates a new TagService
func NewTagService(tagRepo repositories.ITagRepository, logger zerolog.Logger) TagService {
	return &tagServiceImpl{
		tagRepo: tagRepo,
		logger:  logger,
	}
}

// ListTags returns a lecture's tags ordered by name
func (s *tagServiceImpl) ListTags(ctx context.Context, lectureID int64) ([]dto.TagResponse, error) {
	tags, err := s.tagRepo.ListByLecture(ctx, lectureID)
	if err != nil {
		return nil, fmt.Errorf("error listing tags: %w", err)
	}
	return dto.NewTagResponses(tags), nil
}

// GetOrCreateTag returns the lecture's tag with the trimmed name, creating it
// when missing
func (s *tagServiceImpl) GetOrCreateTag(ctx context.Context, lectureID int64, req *dto.CreateTagRequest) (*dto.TagResponse, bool, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, false, apperrors.NewValidationError("tag name is required")
	}

	tag, created, err := s.tagRepo.GetOrCreate(ctx, lectureID, name)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info().Int64("lectureID", lectureID).Int64("tagID", tag.ID).Str("name", name).Msg("Tag created")
	}

	resp := dto.NewTagResponse(*tag)
	return &resp, created, nil
}

// DeleteTag removes a tag; it disappears from every question carrying it
func (s *tagServiceImpl) DeleteTag(ctx context.Context, lectureID, tagID int64) error {
	if err := s.tagRepo.Delete(ctx, lectureID, tagID); err != nil {
		return err
	}
	s.logger.Info().Int64("lectureID", lectureID).Int64("tagID", tagID).Msg("Tag deleted")
	return nil
}
