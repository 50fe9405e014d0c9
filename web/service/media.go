package service

import (
	"io"
	"strings"

	"github.com/mhsanaei/mediahub/database"
	"github.com/mhsanaei/mediahub/database/model"
	"github.com/mhsanaei/mediahub/logger"
	"github.com/mhsanaei/mediahub/util/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// allowedExtensions is the fixed set of uploadable file types.
var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"mp4":  true,
}

// AllowedFile reports whether filename carries an allowed extension.
// The check is case-insensitive and uses the text after the last dot.
func AllowedFile(filename string) bool {
	return strings.Contains(filename, ".") && allowedExtensions[common.FileExtension(filename)]
}

// UploadInput carries one media upload.
type UploadInput struct {
	Title       string
	Description string
	Filename    string
	Content     io.Reader
}

// MediaService lists, stores and deletes media.
type MediaService struct {
	db      *gorm.DB
	storage *FileStorage
}

func NewMediaService(db *gorm.DB, storage *FileStorage) *MediaService {
	return &MediaService{db: db, storage: storage}
}

func (s *MediaService) Storage() *FileStorage {
	return s.storage
}

// List returns every media item newest first with author, comments and ratings loaded.
func (s *MediaService) List() ([]model.Media, error) {
	var media []model.Media
	err := s.db.
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.id") }).
		Preload("Comments.User").
		Preload("Ratings").
		Order("id desc").
		Find(&media).Error
	return media, err
}

func (s *MediaService) Get(id int) (*model.Media, error) {
	media := &model.Media{}
	err := s.db.First(media, id).Error
	if database.IsNotFound(err) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, err
	}
	return media, nil
}

// Upload validates and stores a file for a creator and records it.
func (s *MediaService) Upload(user *model.User, in UploadInput) (*model.Media, error) {
	if user == nil || !user.IsCreator {
		return nil, ErrNotCreator
	}
	if in.Content == nil || in.Filename == "" {
		return nil, ErrNoFile
	}
	if !AllowedFile(in.Filename) {
		return nil, ErrFileTypeNotAllowed
	}
	filename := common.SecureFilename(in.Filename)
	if filename == "" || !AllowedFile(filename) {
		return nil, ErrInvalidFilename
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	stored, err := s.storage.Save(in.Content, common.FileExtension(filename))
	if err != nil {
		return nil, err
	}

	media := &model.Media{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Filename:    filename,
		StoredName:  stored.Name,
		ContentType: stored.ContentType,
		Size:        stored.Size,
		UserId:      user.Id,
	}
	if err := s.db.Omit(clause.Associations).Create(media).Error; err != nil {
		if rmErr := s.storage.Remove(stored.Name); rmErr != nil {
			logger.Warning("remove orphaned upload failed:", rmErr)
		}
		return nil, err
	}
	return media, nil
}

// Delete removes media owned by user together with its comments, ratings and
// stored file.
func (s *MediaService) Delete(user *model.User, id int) error {
	media, err := s.Get(id)
	if err != nil {
		return err
	}
	if user == nil || media.UserId != user.Id {
		return ErrNotOwner
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("media_id = ?", media.Id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("media_id = ?", media.Id).Delete(&model.Rating{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Media{}, media.Id).Error
	})
	if err != nil {
		return err
	}

	if err := s.storage.Remove(media.StoredName); err != nil {
		logger.Warningf("media %d deleted but file %s remains: %v", media.Id, media.StoredName, err)
	}
	return nil
}
