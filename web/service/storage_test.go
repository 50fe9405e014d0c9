package service

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bytesOf(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

func TestFileStorageSaveAndRemove(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 5000)...)
	stored, err := s.Save(bytesOf(payload), "PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(stored.Name, ".png"))
	assert.Equal(t, int64(len(payload)), stored.Size)
	assert.Equal(t, "image/png", stored.ContentType)

	data, err := os.ReadFile(s.Path(stored.Name))
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	require.NoError(t, s.Remove(stored.Name))
	assert.False(t, s.Exists(stored.Name))
	assert.NoError(t, s.Remove(stored.Name), "removing twice is fine")
}

func TestFileStorageRejectsTraversal(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, s.Path("../secret"))
	assert.Empty(t, s.Path(""))
	assert.ErrorIs(t, s.Remove("../secret"), ErrInvalidFilename)
	assert.False(t, s.Exists("a/b.png"))
}
