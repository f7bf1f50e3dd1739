// Package apperr defines the typed failures the service layer returns to the
// transport layer. Anything that is not an *Error is treated as an internal
// fault: logged in full, surfaced as an opaque 500.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an expected failure.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindBadRequest
	KindConflict
	KindUnauthenticated
)

// Error is a recoverable failure with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Status maps the failure kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Message: msg} }
func BadRequest(msg string) *Error      { return &Error{Kind: KindBadRequest, Message: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }
func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
