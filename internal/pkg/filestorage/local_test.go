package filestorage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveExistsDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "uploads/")
	require.NoError(t, err)

	info, err := store.Save(context.Background(), strings.NewReader("png-bytes"), ".PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(info.Filename, ".png"))
	assert.Equal(t, "/uploads/"+info.Filename, info.Path)
	assert.Equal(t, int64(len("png-bytes")), info.Size)

	content, err := os.ReadFile(filepath.Join(dir, info.Filename))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	ok, err := store.Exists(info.Filename)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(info.Filename))
	ok, err = store.Exists(info.Filename)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting twice is fine
	assert.NoError(t, store.Delete(info.Filename))
}

func TestLocalStorageGeneratesDistinctNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	a, err := store.Save(context.Background(), strings.NewReader("a"), "jpg")
	require.NoError(t, err)
	b, err := store.Save(context.Background(), strings.NewReader("b"), "jpg")
	require.NoError(t, err)

	assert.NotEqual(t, a.Filename, b.Filename)
	assert.True(t, strings.HasPrefix(a.Path, "/uploads/"))
}

func TestValidateFilenameRejectsPaths(t *testing.T) {
	assert.NoError(t, ValidateFilename("0b7c.png"))
	for _, name := range []string{"", ".", "..", "../etc/passwd", "a/b.png", `a\b.png`} {
		assert.ErrorIs(t, ValidateFilename(name), ErrInvalidFilename, name)
	}

	store, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	_, err = store.Exists("../secret")
	assert.ErrorIs(t, err, ErrInvalidFilename)
	assert.ErrorIs(t, store.Delete("../secret"), ErrInvalidFilename)
}
