package errors

import (
	"fmt"
	"strings"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for callers
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with additional caller context.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// FieldError is one failed validation rule for one input field.
type FieldError struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// ValidationError accumulates field-level validation failures. It is
// recoverable: the caller may correct the input and retry.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Code))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add appends one field failure.
func (e *ValidationError) Add(field string, code Code, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Code: code, Message: message})
}

// HasCode reports whether any accumulated field failed with the code.
func (e *ValidationError) HasCode(code Code) bool {
	for _, f := range e.Fields {
		if f.Code == code {
			return true
		}
	}
	return false
}

// Valid reports whether no field failures were accumulated.
func (e *ValidationError) Valid() bool {
	return len(e.Fields) == 0
}

// ErrOrNil returns the accumulated error, or nil when validation passed.
func (e *ValidationError) ErrOrNil() error {
	if e.Valid() {
		return nil
	}
	return e
}

// MissingAssociationError reports a required association reference that did
// not resolve to an existing record. Unlike ValidationError this is a caller
// defect (an incomplete object graph), not user-facing form feedback.
type MissingAssociationError struct {
	Field string
	ID    string
	Cause error
}

// Error implements the error interface.
func (e *MissingAssociationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("missing required association %s", e.Field)
	}
	return fmt.Sprintf("missing required association %s (id %s)", e.Field, e.ID)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *MissingAssociationError) Unwrap() error {
	return e.Cause
}
