// Package errors defines the user-facing error taxonomy.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeReadFailure   = "READ_FAILURE"
	ErrCodeWriteFailure  = "WRITE_FAILURE"
	ErrCodeEmptyDataset  = "EMPTY_DATASET"
	ErrCodeEmptySelect   = "EMPTY_SELECTION"
	ErrCodeTooFewOptions = "TOO_FEW_OPTIONS"
)

// AppError is an error with a stable code and a message fit for a notice.
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "EMPTY_SELECTION")
	Message string // Human-readable message
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a NOT_FOUND file error.
func NewNotFoundError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("file not found: %s", path),
		Err:     err,
	}
}

// NewReadError creates a READ_FAILURE file error.
func NewReadError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeReadFailure,
		Message: fmt.Sprintf("error reading the file %s", path),
		Err:     err,
	}
}

// NewWriteError creates a WRITE_FAILURE file error.
func NewWriteError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeWriteFailure,
		Message: fmt.Sprintf("error writing the file %s", path),
		Err:     err,
	}
}

// NewEmptyDatasetError is returned when selecting from an empty dataset.
func NewEmptyDatasetError() *AppError {
	return &AppError{
		Code:    ErrCodeEmptyDataset,
		Message: "the dataset has no word pairs",
	}
}

// NewEmptySelectionError is returned when a round starts without items.
func NewEmptySelectionError() *AppError {
	return &AppError{
		Code:    ErrCodeEmptySelect,
		Message: "no words selected for the round",
	}
}

// NewTooFewOptionsError is returned when multiple choice lacks distinct candidates.
func NewTooFewOptionsError(have, want int) *AppError {
	return &AppError{
		Code:    ErrCodeTooFewOptions,
		Message: fmt.Sprintf("need %d distinct answers for multiple choice, have %d", want, have),
	}
}

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Notice returns the text shown to the user for err.
func Notice(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Code {
	case ErrCodeNotFound:
		return "File not found! " + appErr.Message
	case ErrCodeReadFailure, ErrCodeWriteFailure:
		if appErr.Err != nil {
			return fmt.Sprintf("%s: %v", capitalize(appErr.Message), appErr.Err)
		}
		return capitalize(appErr.Message)
	default:
		return capitalize(appErr.Message)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
