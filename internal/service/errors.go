package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. The API maps them to status codes.
var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid username or password")
	ErrUnauthenticated      = errors.New("no active session")
	ErrForbidden            = errors.New("access denied")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrCascadeIncomplete    = errors.New("cascade deletion incomplete")
	ErrStorageDisabled      = errors.New("image storage is not configured")
	ErrHashingFailed        = errors.New("failed to hash password")

	ErrAccountNotFound  = fmt.Errorf("account %w", ErrNotFound)
	ErrProgramNotFound  = fmt.Errorf("program %w", ErrNotFound)
	ErrExerciseNotFound = fmt.Errorf("exercise %w", ErrNotFound)
	ErrReportNotFound   = fmt.Errorf("report %w", ErrNotFound)
	ErrImageNotFound    = fmt.Errorf("exercise image %w", ErrNotFound)
	ErrUsernameTaken    = fmt.Errorf("%w: username already taken", ErrConflict)
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}
