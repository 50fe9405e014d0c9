package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mhsanaei/mediahub/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"x.png", true},
		{"x.PNG", true},
		{"clip.mp4", true},
		{"photo.jpeg", true},
		{"anim.gif", true},
		{"x.exe", false},
		{"png", false},
		{"x.png.exe", false},
		{"x.exe.png", true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedFile(tt.name))
		})
	}
}

func TestUploadCreatesMedia(t *testing.T) {
	f := setup(t)
	alice := f.register(t, "alice", true)

	m, err := f.media.Upload(alice, UploadInput{
		Title:       "Cat",
		Description: "a cat",
		Filename:    "cat.png",
		Content:     bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)

	assert.Equal(t, "cat.png", m.Filename)
	assert.Equal(t, alice.Id, m.UserId)
	assert.Equal(t, "image/png", m.ContentType)
	assert.Equal(t, int64(len(pngHeader)), m.Size)
	assert.True(t, strings.HasSuffix(m.StoredName, ".png"))
	assert.True(t, f.storage.Exists(m.StoredName))
}

func TestUploadRejections(t *testing.T) {
	f := setup(t)
	alice := f.register(t, "alice", true)
	bob := f.register(t, "bob", false)

	tests := []struct {
		name  string
		user  *model.User
		input UploadInput
		want  error
	}{
		{"non creator", bob, UploadInput{Title: "t", Filename: "x.png", Content: bytes.NewReader(pngHeader)}, ErrNotCreator},
		{"anonymous", nil, UploadInput{Title: "t", Filename: "x.png", Content: bytes.NewReader(pngHeader)}, ErrNotCreator},
		{"no file", alice, UploadInput{Title: "t", Filename: "x.png"}, ErrNoFile},
		{"empty filename", alice, UploadInput{Title: "t", Content: bytes.NewReader(pngHeader)}, ErrNoFile},
		{"exe", alice, UploadInput{Title: "t", Filename: "x.exe", Content: bytes.NewReader(pngHeader)}, ErrFileTypeNotAllowed},
		{"unsanitizable", alice, UploadInput{Title: "t", Filename: "日本.png", Content: bytes.NewReader(pngHeader)}, ErrInvalidFilename},
		{"blank title", alice, UploadInput{Title: "  ", Filename: "x.png", Content: bytes.NewReader(pngHeader)}, ErrEmptyTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.media.Upload(tt.user, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, count(t, f.db, &model.Media{}, ""))
}

func TestUploadSameNameKeepsBothFiles(t *testing.T) {
	f := setup(t)
	alice := f.register(t, "alice", true)

	first := f.upload(t, alice, "cat.png")
	second := f.upload(t, alice, "cat.png")

	assert.Equal(t, first.Filename, second.Filename)
	assert.NotEqual(t, first.StoredName, second.StoredName)
	assert.True(t, f.storage.Exists(first.StoredName))
	assert.True(t, f.storage.Exists(second.StoredName))
}

func TestUploadSanitizesFilename(t *testing.T) {
	f := setup(t)
	alice := f.register(t, "alice", true)

	m := f.upload(t, alice, "../../etc/passwd.png")
	assert.Equal(t, "etc_passwd.png", m.Filename)
}

func TestListNewestFirst(t *testing.T) {
	f := setup(t)
	alice := f.register(t, "alice", true)
	bob := f.register(t, "bob", false)

	older := f.upload(t, alice, "a.png")
	newer := f.upload(t, alice, "b.png")
	_, err := f.interactions.AddComment(bob.Id, older.Id, "nice")
	require.NoError(t, err)
	_, err = f.interactions.Rate(bob.Id, older.Id, 4)
	require.NoError(t, err)

	list, err := f.media.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.Id, list[0].Id)
	assert.Equal(t, older.Id, list[1].Id)
	assert.Equal(t, "alice", list[1].User.Username)
	require.Len(t, list[1].Comments, 1)
	assert.Equal(t, "bob", list[1].Comments[0].User.Username)
	assert.Equal(t, 4, list[1].RatingBy(bob.Id))
}

func TestDeleteByOwnerRemovesRowFileAndDependents(t *testing.T) {
	f := setup(t)
	alice := f.register(t, "alice", true)
	bob := f.register(t, "bob", false)
	m := f.upload(t, alice, "cat.png")
	_, err := f.interactions.AddComment(bob.Id, m.Id, "cute")
	require.NoError(t, err)
	_, err = f.interactions.Rate(bob.Id, m.Id, 5)
	require.NoError(t, err)

	require.NoError(t, f.media.Delete(alice, m.Id))

	assert.Zero(t, count(t, f.db, &model.Media{}, "id = ?", m.Id))
	assert.Zero(t, count(t, f.db, &model.Comment{}, "media_id = ?", m.Id))
	assert.Zero(t, count(t, f.db, &model.Rating{}, "media_id = ?", m.Id))
	assert.False(t, f.storage.Exists(m.StoredName))
}

func TestDeleteByNonOwnerLeavesEverything(t *testing.T) {
	f := setup(t)
	alice := f.register(t, "alice", true)
	bob := f.register(t, "bob", true)
	m := f.upload(t, alice, "cat.png")

	assert.ErrorIs(t, f.media.Delete(bob, m.Id), ErrNotOwner)
	assert.Equal(t, int64(1), count(t, f.db, &model.Media{}, "id = ?", m.Id))
	assert.True(t, f.storage.Exists(m.StoredName))
}

func TestDeleteUnknownMedia(t *testing.T) {
	f := setup(t)
	alice := f.register(t, "alice", true)

	assert.ErrorIs(t, f.media.Delete(alice, 42), ErrMediaNotFound)
}

func TestDeleteToleratesMissingFile(t *testing.T) {
	f := setup(t)
	alice := f.register(t, "alice", true)
	m := f.upload(t, alice, "cat.png")
	require.NoError(t, f.storage.Remove(m.StoredName))

	assert.NoError(t, f.media.Delete(alice, m.Id))
}
