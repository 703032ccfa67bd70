// Package common defines shared constants and sentinel errors used across
// the client and server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrEmailTaken = errors.New("email already in use")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorValidation       = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStorage            = errors.New("storage error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError carries a user-facing message for bad input.
// It matches ErrorValidation with errors.Is.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
