// Package apperr defines the error taxonomy surfaced to API callers.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not authorized")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrRateLimited     = errors.New("rate limited")
)

// Error carries a kind sentinel plus the short, human-readable message that
// may be shown to the end user. Err holds the underlying cause for logs.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "application error"
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error { return New(ErrValidation, message) }

func Unauthenticated(message string) *Error {
	if message == "" {
		message = "you must be signed in"
	}
	return New(ErrUnauthenticated, message)
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "not authorized to perform this action"
	}
	return New(ErrForbidden, message)
}

func Conflict(message string) *Error { return New(ErrConflict, message) }

func NotFound(message string) *Error {
	if message == "" {
		message = "not found"
	}
	return New(ErrNotFound, message)
}

// IsAuth reports whether err belongs to the auth family (401 or 403).
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrForbidden)
}

// Status maps err to an HTTP status code. Unknown errors are 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing text for err, or fallback when err is not
// an *Error (raw storage and provider errors never reach the caller).
func Message(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}
