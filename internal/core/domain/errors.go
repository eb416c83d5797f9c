package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrValidation indicates a submitted employee failed required-field or range checks.
	// Returned errors are *ValidationError values that match this sentinel.
	ErrValidation = errors.New("validation failed")

	// Storage Errors.

	// ErrCorruptStore indicates the persisted collection exists but cannot be parsed.
	ErrCorruptStore = errors.New("corrupt record store")

	// ErrWriteFailure indicates the persisted collection could not be written.
	// The previous on-disk state remains authoritative.
	ErrWriteFailure = errors.New("record store write failed")
)

// ValidationError reports a rejected employee submission.
type ValidationError struct {
	// Field is the offending input field, e.g. "name" or "salary".
	Field string

	// Message is a human-readable explanation suitable for end users.
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
