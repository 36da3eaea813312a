// LOCATION: internal/errors/errors.go
//
// This file provides:
// - Sentinel errors for all error conditions
// - Error category checking functions
// - Error wrapping utilities
//
// The analyzer distinguishes fatal conditions (input unreadable, export
// target unwritable) from recoverable per-line conditions, which are
// counted and skipped without interrupting a run.

package errors

import (
	"errors"
	"fmt"
)

// ============================================================================
// Sentinel errors for common conditions
// ============================================================================

var (
	// Input errors (fatal - abort the run)
	ErrInputNotFound   = errors.New("input file not found")
	ErrInputUnreadable = errors.New("input unreadable")
	ErrEmptyInput      = errors.New("input is empty")

	// Per-line errors (recoverable - counted and skipped)
	ErrUnknownPattern  = errors.New("line matches no trace pattern")
	ErrInvalidEncoding = errors.New("invalid byte encoding")
	ErrMalformedField  = errors.New("malformed field")

	// Validation errors
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidTraceType = errors.New("unknown trace type")
	ErrInvalidRange     = errors.New("invalid latency range")
	ErrMissingField     = errors.New("missing required field")

	// Export errors
	ErrWriterClosed   = errors.New("writer is closed")
	ErrExportFailed   = errors.New("export failed")
	ErrNothingToWrite = errors.New("no records to write")

	// Query errors
	ErrQueryFailed   = errors.New("query failed")
	ErrNoParquetData = errors.New("no parquet data for trace type")

	// Transport errors
	ErrBucketNotFound = errors.New("bucket not found")
	ErrUploadFailed   = errors.New("upload failed")
	ErrDownloadFailed = errors.New("download failed")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// IsFatal returns true if err aborts a run rather than skipping an item.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInputNotFound) ||
		errors.Is(err, ErrInputUnreadable) ||
		errors.Is(err, ErrExportFailed)
}

// IsRecoverable returns true if err is a per-line condition that is
// counted and skipped while the run continues.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrUnknownPattern) ||
		errors.Is(err, ErrInvalidEncoding) ||
		errors.Is(err, ErrMalformedField)
}

// IsValidation returns true if err is a configuration/validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidTraceType) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrMissingField)
}

// ============================================================================
// Error wrapping utilities
// ============================================================================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ============================================================================
// Error constructors with context
// ============================================================================

// NewInput creates a fatal input error carrying the source path and stage.
func NewInput(stage, path string, err error) error {
	return fmt.Errorf("%s %q: %v: %w", stage, path, err, ErrInputUnreadable)
}

// NewValidation creates a validation error with context.
func NewValidation(field, reason string) error {
	return fmt.Errorf("invalid %s: %s: %w", field, reason, ErrInvalidConfig)
}

// NewMissingField creates a missing field error.
func NewMissingField(field string) error {
	return fmt.Errorf("%s: %w", field, ErrMissingField)
}
