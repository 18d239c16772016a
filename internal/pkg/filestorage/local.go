package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/classqa/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath  string // The root directory where files will be stored
	urlPrefix string // Path prefix the directory is served under, e.g. /uploads
}

// NewLocalStorage creates a new LocalStorage instance, creating basePath if needed.
func NewLocalStorage(basePath, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}

	return &LocalStorage{
		basePath:  basePath,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}, nil
}

// BasePath returns the directory files are written to
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// URLPrefix returns the path prefix files are served under
func (ls *LocalStorage) URLPrefix() string {
	return ls.urlPrefix
}

// Save copies r into a new file named <uuid><ext>.
func (ls *LocalStorage) Save(ctx context.Context, r io.Reader, ext string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	filename := uuid.New().String() + ext
	dstPath := filepath.Join(ls.basePath, filename)

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}

	size, err := io.Copy(dst, r)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("saved_as", filename).Int64("size", size).Msg("File saved successfully")
	return &FileInfo{
		Filename: filename,
		Path:     ls.PublicPath(filename),
		Size:     size,
	}, nil
}

// Delete removes a file from the storage directory.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) Delete(filename string) error {
	if err := ValidateFilename(filename); err != nil {
		return err
	}

	physicalPath := filepath.Join(ls.basePath, filename)
	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// Exists reports whether filename is a regular file in storage
func (ls *LocalStorage) Exists(filename string) (bool, error) {
	if err := ValidateFilename(filename); err != nil {
		return false, err
	}

	info, err := os.Stat(filepath.Join(ls.basePath, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// PublicPath returns the served path of filename
func (ls *LocalStorage) PublicPath(filename string) string {
	return ls.urlPrefix + "/" + filename
}

// ValidateFilename accepts only a bare file name without directory parts.
func ValidateFilename(filename string) error {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filepath.Base(filename) != filename {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return nil
}
