package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/filestorage"
)

// Services defined in this package:
// - AuthService: registration, login, current user and display settings
// - LectureService: lecture listing, creation and deletion
// - TagService: per-lecture tag listing, get-or-create and deletion
// - QuestionService: question listing, creation, resolution, tags and deletion
// - AnswerService: answers on questions
// - UploadService: image uploads for later attachment

// EventPublisher announces changes to clients watching a lecture
type EventPublisher interface {
	Publish(eventType string, lectureID, questionID int64)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, int64, int64) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// resolveImages turns attachment references into image rows. Every filename
// must name a file that was uploaded to storage; paths are derived from it.
func resolveImages(storage filestorage.FileStorage, attachments []dto.ImageAttachment) ([]models.Image, error) {
	if len(attachments) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(attachments))
	images := make([]models.Image, 0, len(attachments))
	for _, a := range attachments {
		if err := filestorage.ValidateFilename(a.Filename); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid image filename %q", a.Filename))
		}
		if _, dup := seen[a.Filename]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("image %q is listed more than once", a.Filename))
		}
		seen[a.Filename] = struct{}{}

		exists, err := storage.Exists(a.Filename)
		if err != nil {
			return nil, fmt.Errorf("error checking image %s: %w", a.Filename, err)
		}
		if !exists {
			return nil, apperrors.NewValidationError(fmt.Sprintf("image %q has not been uploaded", a.Filename))
		}

		images = append(images, models.Image{
			Filename: a.Filename,
			Path:     storage.PublicPath(a.Filename),
		})
	}
	return images, nil
}

// removeFiles deletes image files whose rows are already gone. Failures are
// logged and otherwise ignored.
func removeFiles(ctx context.Context, storage filestorage.FileStorage, logger zerolog.Logger, filenames []string) {
	for _, name := range filenames {
		if ctx.Err() != nil {
			return
		}
		if err := storage.Delete(name); err != nil {
			logger.Warn().Err(err).Str("filename", name).Msg("Failed to remove image file")
		}
	}
}
