// Package apperror defines the domain error vocabulary shared by every layer.
//
// Services return *AppError values wrapping one of the sentinels below.
// Only the HTTP layer decides which status code and body a sentinel becomes,
// so nothing under internal/service imports net/http.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("storage unavailable")
)

// FieldError is one rejected input field. A request can fail on several
// fields at once, and all of them are reported together.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Err     error        // actual error
	Message string       // Human-readable error message
	Field   string       // Optional: field causing the error
	Fields  []FieldError // Optional: every failing field, for multi-field validation
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// FieldErrors returns every field-level failure carried by the error.
// A single-field error built by ValidationFailed yields a one-element slice.
func (e *AppError) FieldErrors() []FieldError {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	if e.Field != "" {
		return []FieldError{{Field: e.Field, Message: e.Message}}
	}
	return nil
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Invalid collects several field failures into one validation error.
// Returns a nil error (not a typed nil) when fields is empty.
func Invalid(fields ...FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &AppError{
		Err:     ErrValidation,
		Message: "validation failed",
		Field:   fields[0].Field,
		Fields:  fields,
	}
}

// Conflict reports that a unique value (login, email) is already taken.
// The field is kept so the client can highlight the offending input.
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized means the caller's identity could not be established
// (bad credentials, missing or rejected token).
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Unavailable wraps a storage failure. The cause is kept for logs via
// errors.Unwrap chains but never shown to clients.
func Unavailable(op string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %w", ErrUnavailable, op, cause),
		Message: "storage unavailable",
	}
}
