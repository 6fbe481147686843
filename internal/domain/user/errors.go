package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("the email has already been taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
