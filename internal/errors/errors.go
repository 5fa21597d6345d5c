package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
)

// Error is the service-layer error type. Services return these; the
// transport layer turns them into HTTP responses via Status.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation creates a client-input error (400).
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// NotFound creates a missing-resource error (404).
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Unauthorized creates an unauthenticated error (401).
func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

// Forbidden creates a not-your-resource error (403).
func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

// Conflict creates a duplicate/contention error (409).
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// Map converts repo/infra errors into service errors.
// Keeps the service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Msg: "record not found", Err: err}

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindConflict, Msg: "duplicate record", Err: err}

	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindInternal, Msg: "request timed out", Err: err}

	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindInternal, Msg: "request was canceled", Err: err}

	default:
		return &Error{Kind: KindInternal, Msg: "internal error", Err: err}
	}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err. Internal errors are
// masked so store details never leak to callers.
func Message(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		return "internal server error"
	}
	return appErr.Msg
}
