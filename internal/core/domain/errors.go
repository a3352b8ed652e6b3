package domain

import "errors"

// Authentication failures. Callers outside the core only ever see these two
// kinds; any extra detail is wrapped for logging and never rendered.
var (
	ErrAuthFailed   = errors.New("authentication failed")
	ErrInvalidToken = errors.New("invalid token")
)

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrForbidden       = errors.New("access forbidden")
	ErrValidation      = errors.New("validation failed")
)
