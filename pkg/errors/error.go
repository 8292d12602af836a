// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Wrong file format, wrong report kind, bad configuration
//   - Data/Resource errors (200-299): Stored reports that are missing or cannot be read
//   - Parse errors (300-399): Documents that were recognized but could not be parsed
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeFormatMismatch, "please upload an .html file")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeReportNotFound, "report %s not found", id)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeWorkbookUnreadable, "failed to open workbook", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeIdentityMismatch) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// UserMessage returns the message of the outermost *Error without the code prefix
// or the cause chain. Other errors are returned as their Error() string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}

	return err.Error()
}

// RowError describes a single table row that could not be turned into a record.
// Row errors are never fatal to a parse; the row is skipped and the error recorded.
type RowError struct {
	Section string // Table or section the row belongs to (e.g. "Positions", "Deals")
	Row     int    // Zero based row index within the document or sheet
	Field   string // Optional: the field that failed
	Message string // Human-readable message
}

// NewRowError creates a new RowError.
func NewRowError(section string, row int, field, message string) *RowError {
	return &RowError{
		Section: section,
		Row:     row,
		Field:   field,
		Message: message,
	}
}

// NewRowErrorf creates a new RowError with a formatted message.
func NewRowErrorf(section string, row int, field, format string, args ...any) *RowError {
	return &RowError{
		Section: section,
		Row:     row,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s row %d (%s): %s", e.Section, e.Row, e.Field, e.Message)
	}

	return fmt.Sprintf("%s row %d: %s", e.Section, e.Row, e.Message)
}

// IsRowError checks if an error is a RowError.
// It uses errors.As to check the error chain.
func IsRowError(err error) bool {
	var rowErr *RowError

	return errors.As(err, &rowErr)
}
