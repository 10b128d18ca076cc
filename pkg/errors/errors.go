// Package errors carries the HTTP-facing error envelope and the mapping
// from the persistence error taxonomy onto it.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"asset-registry-api/internal/identity"
	"asset-registry-api/internal/repository"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Business logic errors
	ErrorCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrorCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrorCodeAlreadyIdentified   ErrorCode = "ALREADY_IDENTIFIED"
	ErrorCodeInvalidAttribute    ErrorCode = "INVALID_ATTRIBUTE"
	ErrorCodeMalformedIdentifier ErrorCode = "MALFORMED_IDENTIFIER"
	ErrorCodeDanglingReference   ErrorCode = "DANGLING_REFERENCE"

	// Technical errors
	ErrorCodeInternal    ErrorCode = "INTERNAL_ERROR"
	ErrorCodePersistence ErrorCode = "PERSISTENCE_ERROR"
	ErrorCodeTimeout     ErrorCode = "TIMEOUT_ERROR"

	// Request errors
	ErrorCodeBadRequest  ErrorCode = "BAD_REQUEST"
	ErrorCodeInvalidJSON ErrorCode = "INVALID_JSON"
)

// AppError represents a structured application error
type AppError struct {
	Code      ErrorCode         `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Cause     error             `json:"-"`
	Timestamp time.Time         `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error wrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// GetHTTPStatus returns the appropriate HTTP status code for the error
func (e *AppError) GetHTTPStatus() int {
	switch e.Code {
	case ErrorCodeValidation, ErrorCodeBadRequest, ErrorCodeInvalidJSON,
		ErrorCodeInvalidAttribute, ErrorCodeMalformedIdentifier:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeAlreadyIdentified:
		return http.StatusConflict
	case ErrorCodeTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap creates a new application error with an underlying cause
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// WithDetails attaches field-level details to the error
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// ValidationError creates a validation error carrying field details
func ValidationError(fields map[string]string) *AppError {
	return New(ErrorCodeValidation, "Validation failed").WithDetails(fields)
}

// InvalidJSONError creates an invalid JSON error
func InvalidJSONError(cause error) *AppError {
	return Wrap(ErrorCodeInvalidJSON, "Invalid JSON format", cause)
}

// FromError maps a persistence or identity error onto the envelope.
// Unknown errors become internal errors so raw causes never leak to
// callers.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var dangling *repository.DanglingReferenceError
	var persistenceErr *repository.PersistenceError

	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return Wrap(ErrorCodeNotFound, "Entity not found", err)
	case stderrors.Is(err, repository.ErrAlreadyIdentified):
		return Wrap(ErrorCodeAlreadyIdentified, "Entity already has an identifier", err)
	case stderrors.Is(err, repository.ErrInvalidAttribute):
		return Wrap(ErrorCodeInvalidAttribute, "Attribute not allowed for filtering", err)
	case stderrors.Is(err, identity.ErrMalformedIdentifier):
		return Wrap(ErrorCodeMalformedIdentifier, "Malformed identifier", err)
	case stderrors.As(err, &dangling):
		return Wrap(ErrorCodeDanglingReference, dangling.Error(), err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return Wrap(ErrorCodeTimeout, "Operation timed out", err)
	case stderrors.As(err, &persistenceErr):
		return Wrap(ErrorCodePersistence, "Storage operation failed", err)
	default:
		return Wrap(ErrorCodeInternal, "Internal error", err)
	}
}
