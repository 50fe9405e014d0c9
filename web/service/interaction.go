package service

import (
	"strings"

	"github.com/mhsanaei/mediahub/database/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MinRating = 1
	MaxRating = 5
)

// InteractionService records comments and ratings on media.
type InteractionService struct {
	db *gorm.DB
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

// AddComment attaches a comment by userId to an existing media item.
func (s *InteractionService) AddComment(userId, mediaId int, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	if err := s.requireMedia(s.db, mediaId); err != nil {
		return nil, err
	}
	comment := &model.Comment{
		Content: content,
		UserId:  userId,
		MediaId: mediaId,
	}
	if err := s.db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Rate stores userId's rating for mediaId, replacing any previous value.
// The write is a single INSERT ... ON CONFLICT so concurrent submissions keep
// one row per (user, media). created reports whether no rating existed before.
func (s *InteractionService) Rate(userId, mediaId, value int) (created bool, err error) {
	if value < MinRating || value > MaxRating {
		return false, ErrInvalidRating
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.requireMedia(tx, mediaId); err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&model.Rating{}).
			Where("user_id = ? AND media_id = ?", userId, mediaId).
			Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0

		rating := &model.Rating{Value: value, UserId: userId, MediaId: mediaId}
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "media_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).
			Create(rating).Error
	})
	return created, err
}

// GetRating returns the rating userId gave mediaId, or nil.
func (s *InteractionService) GetRating(userId, mediaId int) (*model.Rating, error) {
	var ratings []model.Rating
	err := s.db.Where("user_id = ? AND media_id = ?", userId, mediaId).Limit(1).Find(&ratings).Error
	if err != nil || len(ratings) == 0 {
		return nil, err
	}
	return &ratings[0], nil
}

func (s *InteractionService) requireMedia(db *gorm.DB, mediaId int) error {
	var count int64
	if err := db.Model(&model.Media{}).Where("id = ?", mediaId).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrMediaNotFound
	}
	return nil
}
