package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an AppError so the HTTP layer can pick a status code.
type ErrorKind string

const (
	KindValidation      ErrorKind = "VALIDATION_ERROR"
	KindConflict        ErrorKind = "CONFLICT"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindUnauthenticated ErrorKind = "UNAUTHENTICATED"
	KindInvalidToken    ErrorKind = "INVALID_TOKEN"
	KindUpstream        ErrorKind = "UPSTREAM_ERROR"
	KindInternal        ErrorKind = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status maps the error kind onto an HTTP status code.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindInvalidToken:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

func NewInvalidTokenError(err error) *AppError {
	return &AppError{Kind: KindInvalidToken, Message: "Invalid or expired token", Err: err}
}

func NewUpstreamError(err error) *AppError {
	return &AppError{Kind: KindUpstream, Message: "Suggestion service unavailable", Err: err}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "Internal Server Error", Err: err}
}

// AsAppError unwraps err into an AppError, treating anything unknown as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// StatusOf returns the HTTP status code err should be reported with.
func StatusOf(err error) int {
	return AsAppError(err).Status()
}
