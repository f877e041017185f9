package services

import (
	"errors"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrUsernameTaken        = errors.New("username is already taken")
	ErrEmailTaken           = errors.New("email is already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired otp")
	ErrUserNotFound         = errors.New("user not found")
	ErrLinkNotFound         = errors.New("link not found")
	ErrThemeNotFound        = errors.New("theme not found")
	ErrNoActiveTheme        = errors.New("no active theme")
	ErrDeliveryFailed       = errors.New("failed to send otp email")
)

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
