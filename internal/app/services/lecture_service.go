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
	"github.com/yigit/classqa/internal/pkg/helpers"
	"github.com/yigit/classqa/internal/pkg/websocket"
)

// LectureService defines the interface for lecture operations
type LectureService interface {
	ListLectures(ctx context.Context) (*dto.LectureListResponse, error)
	GetLecture(ctx context.Context, id int64) (*dto.LectureResponse, error)
	CreateLecture(ctx context.Context, caller authz.Principal, req *dto.CreateLectureRequest) (*dto.LectureResponse, error)
	DeleteLecture(ctx context.Context, caller authz.Principal, id int64) error
}

// lectureServiceImpl implements LectureService
type lectureServiceImpl struct {
	lectureRepo repositories.ILectureRepository
	storage     filestorage.FileStorage
	events      EventPublisher
	logger      zerolog.Logger
}

// NewLectureService creates a new LectureService
func NewLectureService(
	lectureRepo repositories.ILectureRepository,
	storage filestorage.FileStorage,
	events EventPublisher,
	logger zerolog.Logger,
) LectureService {
	return &lectureServiceImpl{
		lectureRepo: lectureRepo,
		storage:     storage,
		events:      publisherOrNop(events),
		logger:      logger,
	}
}

// ListLectures returns all lectures, newest first
func (s *lectureServiceImpl) ListLectures(ctx context.Context) (*dto.LectureListResponse, error) {
	lectures, err := s.lectureRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing lectures: %w", err)
	}
	resp := dto.NewLectureListResponse(lectures)
	return &resp, nil
}

// GetLecture returns a single lecture
func (s *lectureServiceImpl) GetLecture(ctx context.Context, id int64) (*dto.LectureResponse, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewLectureResponse(lecture)
	return &resp, nil
}

// CreateLecture creates a lecture owned by the calling teacher
func (s *lectureServiceImpl) CreateLecture(ctx context.Context, caller authz.Principal, req *dto.CreateLectureRequest) (*dto.LectureResponse, error) {
	if err := authz.CanCreateLecture(caller); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("lecture name is required")
	}

	lecture := &models.Lecture{
		Name:        name,
		Description: helpers.TrimToNil(req.Description),
		TeacherID:   caller.ID,
	}
	if err := s.lectureRepo.Create(ctx, lecture); err != nil {
		return nil, fmt.Errorf("error creating lecture: %w", err)
	}

	s.logger.Info().Int64("lectureID", lecture.ID).Int64("teacherID", caller.ID).Msg("Lecture created")

	created, err := s.lectureRepo.GetByID(ctx, lecture.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading created lecture: %w", err)
	}
	resp := dto.NewLectureResponse(created)
	return &resp, nil
}

// DeleteLecture removes a lecture with its questions, answers, tags and
// images. Role is checked before existence, ownership after.
func (s *lectureServiceImpl) DeleteLecture(ctx context.Context, caller authz.Principal, id int64) error {
	if !caller.IsTeacher() {
		return authz.ErrNotTeacher
	}

	lecture, err := s.lectureRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanDeleteLecture(caller, lecture); err != nil {
		return err
	}

	filenames, err := s.lectureRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Info().Int64("lectureID", id).Int("images", len(filenames)).Msg("Lecture deleted")
	s.events.Publish(websocket.EventLectureDeleted, id, 0)
	removeFiles(ctx, s.storage, s.logger, filenames)
	return nil
}
