package filestorage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidFilename is returned for names that are not a bare file name
var ErrInvalidFilename = errors.New("invalid file name")

// FileInfo represents information about a stored file
type FileInfo struct {
	Filename string // Generated name on disk
	Path     string // Public path the file is served under
	Size     int64  // Size in bytes
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save writes r under a freshly generated name ending in ext
	Save(ctx context.Context, r io.Reader, ext string) (*FileInfo, error)

	// Delete removes a stored file. Missing files are not an error.
	Delete(filename string) error

	// Exists reports whether filename is present in storage
	Exists(filename string) (bool, error)

	// PublicPath returns the URL path a stored file is served under
	PublicPath(filename string) string
}
