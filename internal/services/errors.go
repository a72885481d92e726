package services

import (
	"errors"
	"fmt"

	"github.com/campus-connect/career-portal/internal/validator"
)

// ===== SENTINEL ERRORS =====

var (
	ErrValidationFailed    = errors.New("validation failed")
	ErrBadRequest          = errors.New("bad request")
	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("career profile not found")
	ErrFileNotFound        = errors.New("file not found")
	ErrProfileExists       = errors.New("career profile already exists")
	ErrEmailTaken          = errors.New("email already in use")
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// ValidationError carries field-level failures. It matches ErrValidationFailed
// under errors.Is.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	return e.Errors.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func newValidationFailure(errs validator.ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// ValidationDetails returns the field errors wrapped in err, if any.
func ValidationDetails(err error) validator.ValidationErrors {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Errors
	}
	return nil
}

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrBadRequest)
}
