package service

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/mhsanaei/mediahub/config"
	"github.com/mhsanaei/mediahub/database"
	"github.com/mhsanaei/mediahub/database/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// pngHeader is enough of a PNG signature for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fixture struct {
	db           *gorm.DB
	storage      *FileStorage
	users        *UserService
	media        *MediaService
	interactions *InteractionService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := database.InitDB(&config.DatabaseConfig{
		Type: config.DatabaseTypeSQLite,
		DSN:  filepath.Join(dir, "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })

	storage, err := NewFileStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	return &fixture{
		db:           db,
		storage:      storage,
		users:        NewUserService(db),
		media:        NewMediaService(db, storage),
		interactions: NewInteractionService(db),
	}
}

func (f *fixture) register(t *testing.T, name string, creator bool) *model.User {
	t.Helper()
	u, err := f.users.Register(name, name+"@example.com", "pw-"+name, creator)
	require.NoError(t, err)
	return u
}

func (f *fixture) upload(t *testing.T, owner *model.User, filename string) *model.Media {
	t.Helper()
	m, err := f.media.Upload(owner, UploadInput{
		Title:    "Title " + filename,
		Filename: filename,
		Content:  bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)
	return m
}

func count(t *testing.T, db *gorm.DB, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(m)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
