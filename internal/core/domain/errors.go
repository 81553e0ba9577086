package domain

import (
	"errors"
	"fmt"
)

// Authentication failures. They all surface as 401 but stay distinct so
// callers and metrics can tell them apart.
var (
	ErrAuthHeaderMissing   = errors.New("missing authorization header")
	ErrAuthHeaderMalformed = errors.New("invalid authorization header format")
	ErrTokenInvalid        = errors.New("invalid or expired token")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTooManyAttempts     = errors.New("too many login attempts")
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrSongNotFound    = fmt.Errorf("song %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)

	ErrForbidden       = errors.New("forbidden")
	ErrNotSongOwner    = fmt.Errorf("%w: not the song owner", ErrForbidden)
	ErrNotCommentOwner = fmt.Errorf("%w: not the comment author", ErrForbidden)

	ErrUserExists = errors.New("user already exists")

	// ErrAlreadyLiked is returned by repositories when the (user, song) pair
	// is already stored. Services treat it as success.
	ErrAlreadyLiked = errors.New("song already liked")

	ErrValidation = errors.New("validation failed")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
