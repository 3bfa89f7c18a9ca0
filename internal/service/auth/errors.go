package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("invalid or expired verification code")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrPasswordNotSet     = errors.New("password not set")
)
