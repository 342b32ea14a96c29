package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidState indicates an operation was attempted against a register day
// in the wrong state (e.g. closing a day that is not open).
var ErrInvalidState = errors.New("invalid register state")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrBusy indicates storage lock contention or a transient failure.
// Callers may retry with backoff; the bounded wait is enforced by the
// database lock/statement timeouts.
var ErrBusy = errors.New("storage busy")

// ErrIntegrity indicates a constraint violation that slipped past
// pre-validation. It is a defensive backstop and is never swallowed.
var ErrIntegrity = errors.New("integrity violation")

// AppError carries an HTTP-ish status code alongside the underlying error so
// handlers can map failures without inspecting storage details.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a generic AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationFailedError creates an AppError for malformed input.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}

// NewInvalidStateError creates an AppError for operations against a day in the wrong state.
func NewInvalidStateError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrInvalidState}
}

// NewNotFoundError creates an AppError for missing resources.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewConflictError creates an AppError for uniqueness conflicts.
func NewConflictError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrDuplicate}
}

// NewBusyError creates an AppError for lock contention; safe to retry.
func NewBusyError(message string, err error) *AppError {
	return &AppError{Code: 503, Message: message, Err: errors.Join(ErrBusy, err)}
}

// NewIntegrityError creates an AppError for constraint violations, keeping the
// driver error attached for diagnosis.
func NewIntegrityError(message string, err error) *AppError {
	return &AppError{Code: 500, Message: message, Err: errors.Join(ErrIntegrity, err)}
}
