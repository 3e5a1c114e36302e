// Package apperror defines the error taxonomy shared by all domain services
// and the HTTP status each kind maps to.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate unique key.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized marks bad or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation marks a missing or malformed request field.
	ErrValidation = errors.New("validation")
)

// NotFound returns an ErrNotFound wrapping the given message.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflict returns an ErrConflict wrapping the given message.
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Unauthorized returns an ErrUnauthorized wrapping the given message.
func Unauthorized(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

// Validation returns an ErrValidation wrapping the given message.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// HTTPStatus maps an error to its HTTP status code. Unclassified errors are
// treated as internal failures.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
