// internal/app/system/apperr/apperr.go

// Package apperr defines the error taxonomy shared by all domain operations.
//
// Every store and handler failure is classified as one of the kinds below so
// the HTTP boundary can map it to a stable status code and a user-facing
// message without inspecting error strings. Wrap low-level errors with the
// matching constructor close to where they occur.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuth
	KindForbidden
	KindPaymentRequired
	KindInvalidState
)

// String returns the kind's name for logging.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindPaymentRequired:
		return "payment_required"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "internal"
	}
}

// Error is a classified application error. Message is safe to show to the
// caller; Err (optional) carries internal detail for logs and dev responses.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error with a caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a classified error that carries an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Convenience constructors for the common kinds.

func Validation(message string) *Error      { return New(KindValidation, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func Auth(message string) *Error            { return New(KindAuth, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func PaymentRequired(message string) *Error { return New(KindPaymentRequired, message) }
func InvalidState(message string) *Error    { return New(KindInvalidState, message) }
func Internal(err error) *Error             { return Wrap(KindInternal, "Internal server error", err) }

// KindOf extracts the kind from err, or KindInternal if err is not a
// classified error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message for err. Unclassified errors
// get a generic message so internal detail never leaks by accident.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Internal server error"
}

// IsKind reports whether err is classified as the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
