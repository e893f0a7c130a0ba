package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrUserNotFound            = errors.New("user not found")
	ErrUserExists              = errors.New("user already exists")
	ErrUserInactive            = errors.New("user is inactive")
	ErrInvalidRole             = errors.New("invalid role")
	ErrAccessTokenMissing      = errors.New("access token missing")
	ErrTokenInvalid            = errors.New("token is invalid")
	ErrTokenExpired            = errors.New("token has expired")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrTooManyAttempts         = errors.New("too many login attempts")
	ErrSelfModification        = errors.New("cannot change own role or status")
)

// ValidationError reports a malformed request. Problems holds one
// human-readable message per offending field.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}
