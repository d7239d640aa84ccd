// Package services holds the application operations behind the HTTP handlers.
// Every failure leaves this package as an *Error carrying a Kind, an application
// code in the 4xxyy/5xxyy range and a client-safe message.
package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is the error type returned by every service.
// Message is safe to show clients; Err keeps the cause for logs.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, code int, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func ValidationError(code int, msg string) *Error {
	return newError(KindValidation, code, msg)
}

func NotFoundError(code int, msg string) *Error {
	return newError(KindNotFound, code, msg)
}

func ConflictError(code int, msg string) *Error {
	return newError(KindConflict, code, msg)
}

func UnauthorizedError(code int, msg string) *Error {
	return newError(KindUnauthorized, code, msg)
}

func ForbiddenError(code int, msg string) *Error {
	return newError(KindForbidden, code, msg)
}

// InternalError wraps a storage or infrastructure failure.
func InternalError(code int, msg string, err error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: msg, Err: err}
}

// AsError unwraps err into an *Error, wrapping foreign errors as internal ones.
func AsError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return InternalError(50000, "internal server error", err)
}

// KindOf returns the Kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	return AsError(err).Kind
}

// HTTPStatus maps the kind onto the response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
