package service

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingCredentials = errors.New("username, email and password are required")
	ErrUserNotFound       = errors.New("user not found")

	ErrNotCreator         = errors.New("only creators can upload media")
	ErrNoFile             = errors.New("no selected file")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrInvalidFilename    = errors.New("invalid file name")
	ErrEmptyTitle         = errors.New("title is required")

	ErrMediaNotFound = errors.New("media not found")
	ErrNotOwner      = errors.New("media belongs to another user")

	ErrEmptyComment  = errors.New("comment cannot be empty")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
