package user

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrNothingToUpdate = errors.New("no profile fields to update")
	ErrImageRequired   = errors.New("image file is required")
)
