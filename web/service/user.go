package service

import (
	"strings"

	"github.com/mhsanaei/mediahub/database"
	"github.com/mhsanaei/mediahub/database/model"
	"github.com/mhsanaei/mediahub/logger"
	"github.com/mhsanaei/mediahub/util/crypto"

	"gorm.io/gorm"
)

// UserService manages accounts and credential checks.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user with a hashed password. It returns ErrUsernameTaken
// or ErrEmailTaken when either identity is already in use.
func (s *UserService) Register(username, email, password string, isCreator bool) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	if exists, err := s.exists("username = ?", username); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrUsernameTaken
	}
	if exists, err := s.exists("email = ?", email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrEmailTaken
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsCreator:    isCreator,
	}
	if err := s.db.Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			// lost a race with a concurrent registration
			if taken, _ := s.exists("username = ?", username); taken {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) exists(query string, arg any) (bool, error) {
	var count int64
	err := s.db.Model(&model.User{}).Where(query, arg).Count(&count).Error
	return count > 0, err
}

// CheckUser returns the user when username and password match, nil otherwise.
func (s *UserService) CheckUser(username string, password string) *model.User {
	user := &model.User{}
	err := s.db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil
	}
	return user
}

func (s *UserService) GetUser(id int) (*model.User, error) {
	user := &model.User{}
	err := s.db.First(user, id).Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUsers() ([]model.User, error) {
	var users []model.User
	err := s.db.Order("id").Find(&users).Error
	return users, err
}

// SetCreator grants or revokes the upload permission of a user.
func (s *UserService) SetCreator(username string, isCreator bool) error {
	result := s.db.Model(&model.User{}).
		Where("username = ?", username).
		Update("is_creator", isCreator)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
