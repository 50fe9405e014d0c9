package service

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

// FileStorage keeps uploaded media in a flat directory under generated names,
// so client file names never collide or escape the directory.
type FileStorage struct {
	dir string
}

// StoredFile describes a file written by FileStorage.Save.
type StoredFile struct {
	Name        string
	Size        int64
	ContentType string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) Dir() string {
	return s.dir
}

// Path returns the on-disk location of a stored name. Names containing path
// separators are rejected by returning "".
func (s *FileStorage) Path(name string) string {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return ""
	}
	return filepath.Join(s.dir, name)
}

// Save writes r to a new file named <uuid>.<ext>.
func (s *FileStorage) Save(r io.Reader, ext string) (*StoredFile, error) {
	name := uuid.NewString()
	if ext != "" {
		name += "." + strings.ToLower(ext)
	}
	path := s.Path(name)

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	header = header[:n]

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	written, err := io.Copy(f, io.MultiReader(bytes.NewReader(header), r))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	return &StoredFile{
		Name:        name,
		Size:        written,
		ContentType: mimetype.Detect(header).String(),
	}, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *FileStorage) Remove(name string) error {
	path := s.Path(name)
	if path == "" {
		return ErrInvalidFilename
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether a stored file is present on disk.
func (s *FileStorage) Exists(name string) bool {
	path := s.Path(name)
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
