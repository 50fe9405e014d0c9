// Package model defines the persisted records of mediahub: users, the media
// they upload, and the comments and ratings attached to media.
package model

import (
	"strings"
	"time"
)

type User struct {
	Id           int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string `json:"username" gorm:"size:80;uniqueIndex;not null"`
	Email        string `json:"email" gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"size:128;not null"`
	IsCreator    bool   `json:"isCreator" gorm:"not null;default:false"`
}

func (User) TableName() string { return "users" }

type Media struct {
	Id          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Filename    string    `json:"filename" gorm:"size:255;not null"`
	StoredName  string    `json:"storedName" gorm:"size:64;uniqueIndex;not null"`
	ContentType string    `json:"contentType" gorm:"size:100"`
	Size        int64     `json:"size"`
	UserId      int       `json:"userId" gorm:"not null;index"`
	CreatedAt   time.Time `json:"createdAt"`

	User     User      `json:"author" gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE;"`
	Comments []Comment `json:"comments" gorm:"foreignKey:MediaId;constraint:OnDelete:CASCADE;"`
	Ratings  []Rating  `json:"ratings" gorm:"foreignKey:MediaId;constraint:OnDelete:CASCADE;"`
}

func (Media) TableName() string { return "media" }

// IsVideo reports whether the media should be rendered with a video player.
func (m *Media) IsVideo() bool {
	return strings.HasPrefix(m.ContentType, "video/")
}

// AverageRating returns the mean of loaded ratings, or 0 when there are none.
func (m *Media) AverageRating() float64 {
	if len(m.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range m.Ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(m.Ratings))
}

// RatingBy returns the value userId gave this media, or 0 if it has not been rated by them.
func (m *Media) RatingBy(userId int) int {
	for _, r := range m.Ratings {
		if r.UserId == userId {
			return r.Value
		}
	}
	return 0
}

type Comment struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	UserId    int       `json:"userId" gorm:"not null;index"`
	MediaId   int       `json:"mediaId" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`

	User User `json:"author" gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string { return "comments" }

// Rating is unique per (user, media); the composite index is the conflict
// target for upserts.
type Rating struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Value     int       `json:"value" gorm:"not null"`
	UserId    int       `json:"userId" gorm:"not null;uniqueIndex:idx_rating_user_media"`
	MediaId   int       `json:"mediaId" gorm:"not null;uniqueIndex:idx_rating_user_media"`
	UpdatedAt time.Time `json:"updatedAt"`

	User User `json:"-" gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string { return "ratings" }
