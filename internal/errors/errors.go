// Package errors provides a lightweight structured error type (ObradorError)
// for category-based classification across the store, storage and CLI layers.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of an obrador error for classification
type ErrorCategory string

const (
	// User-facing input errors
	CategoryValidation ErrorCategory = "validation"
	CategoryConfig     ErrorCategory = "config"

	// Durable storage errors
	CategoryPersistence ErrorCategory = "persistence"
	CategoryParse       ErrorCategory = "parse"

	// Runtime and infrastructure errors
	CategoryScheduler ErrorCategory = "scheduler"
	CategoryInternal  ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// ObradorError is a structured error with category, severity and context.
type ObradorError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ObradorError
type ContextFields map[string]any

// Error implements the error interface
func (e *ObradorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *ObradorError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *ObradorError) WithContext(key string, value any) *ObradorError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ObradorError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ObradorError {
	return &ObradorError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ObradorError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ObradorError {
	return &ObradorError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var oe *ObradorError
	if errors.As(err, &oe) {
		return oe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if the error is not an ObradorError.
func GetCategory(err error) ErrorCategory {
	var oe *ObradorError
	if errors.As(err, &oe) {
		return oe.Category
	}
	return CategoryInternal
}

// ValidationError creates a new validation error. Validation errors are
// rejected before any state change, so they are warnings rather than errors.
func ValidationError(message string) *ObradorError {
	return &ObradorError{
		Category: CategoryValidation,
		Severity: SeverityWarning,
		Message:  message,
	}
}

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...any) *ObradorError {
	return ValidationError(fmt.Sprintf(format, args...))
}

// PersistenceError wraps a durable-storage read or write failure.
func PersistenceError(err error, message string) *ObradorError {
	return &ObradorError{
		Category: CategoryPersistence,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}

// ParseError wraps a malformed-document failure (import blobs, loaded state).
func ParseError(err error, message string) *ObradorError {
	return &ObradorError{
		Category: CategoryParse,
		Severity: SeverityWarning,
		Message:  message,
		Cause:    err,
	}
}
