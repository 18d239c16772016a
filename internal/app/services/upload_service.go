package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/filestorage"
)

// DefaultAllowedImageTypes is used when no allow-list is configured
var DefaultAllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// DefaultMaxUploadSize is the upload ceiling when none is configured
const DefaultMaxUploadSize int64 = 5 << 20

// extensions kept from the client's filename when they agree with the content
var imageExtensions = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

// UploadService stores images for later attachment to questions and answers
type UploadService interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader) (*dto.UploadedImage, error)
	DeleteImage(ctx context.Context, filename string) error
}

// UploadConfig holds upload limits
type UploadConfig struct {
	MaxSizeBytes int64
	AllowedTypes []string
}

// uploadServiceImpl implements UploadService
type uploadServiceImpl struct {
	storage filestorage.FileStorage
	config  UploadConfig
	logger  zerolog.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(storage filestorage.FileStorage, config UploadConfig, logger zerolog.Logger) UploadService {
	if config.MaxSizeBytes <= 0 {
		config.MaxSizeBytes = DefaultMaxUploadSize
	}
	if len(config.AllowedTypes) == 0 {
		config.AllowedTypes = DefaultAllowedImageTypes
	}
	return &uploadServiceImpl{
		storage: storage,
		config:  config,
		logger:  logger,
	}
}

// UploadImage validates the file by size and sniffed content type, then
// stores it under a generated name
func (s *uploadServiceImpl) UploadImage(ctx context.Context, file *multipart.FileHeader) (*dto.UploadedImage, error) {
	if file == nil {
		return nil, apperrors.ErrFileMissing
	}
	if file.Size > s.config.MaxSizeBytes {
		return nil, apperrors.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("error detecting content type: %w", err)
	}
	allowedType, ok := s.matchType(mtype)
	if !ok {
		s.logger.Warn().Str("filename", file.Filename).Str("mimeType", mtype.String()).Msg("Rejected upload type")
		return nil, apperrors.ErrUnsupportedFileType
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error rewinding upload: %w", err)
	}

	// Guard against a multipart header that understates the size
	limited := io.LimitReader(src, s.config.MaxSizeBytes+1)
	info, err := s.storage.Save(ctx, limited, extensionFor(file.Filename, allowedType, mtype))
	if err != nil {
		return nil, fmt.Errorf("error saving upload: %w", err)
	}
	if info.Size > s.config.MaxSizeBytes {
		if delErr := s.storage.Delete(info.Filename); delErr != nil {
			s.logger.Warn().Err(delErr).Str("filename", info.Filename).Msg("Failed to remove oversized upload")
		}
		return nil, apperrors.ErrFileTooLarge
	}

	s.logger.Info().Str("filename", info.Filename).Int64("size", info.Size).Msg("Image uploaded")
	return &dto.UploadedImage{
		Filename:     info.Filename,
		Path:         info.Path,
		OriginalName: filepath.Base(file.Filename),
		MimeType:     allowedType,
		Size:         info.Size,
	}, nil
}

func (s *uploadServiceImpl) matchType(mtype *mimetype.MIME) (string, bool) {
	for _, allowed := range s.config.AllowedTypes {
		if mtype.Is(allowed) {
			return allowed, true
		}
	}
	return "", false
}

// extensionFor keeps the client's extension if it fits the detected type
func extensionFor(filename, mimeType string, mtype *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, candidate := range imageExtensions[mimeType] {
		if ext == candidate {
			return ext
		}
	}
	return mtype.Extension()
}

// DeleteImage removes an uploaded file by name
func (s *uploadServiceImpl) DeleteImage(ctx context.Context, filename string) error {
	if err := filestorage.ValidateFilename(filename); err != nil {
		return apperrors.NewValidationError("invalid filename")
	}

	exists, err := s.storage.Exists(filename)
	if err != nil {
		return fmt.Errorf("error checking upload: %w", err)
	}
	if !exists {
		return apperrors.ErrImageNotFound
	}

	if err := s.storage.Delete(filename); err != nil {
		return fmt.Errorf("error deleting upload: %w", err)
	}
	s.logger.Info().Str("filename", filename).Msg("Image deleted")
	return nil
}
