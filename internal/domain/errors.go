// Package domain defines the typed failure taxonomy shared by all services.
//
// Every recoverable failure carries a Code; the HTTP layer maps codes to
// status responses and never inspects error strings. Store failures are
// wrapped with CodeStore so callers can distinguish transient persistence
// errors from domain rejections.
package domain

import (
	"errors"
	"fmt"
)

// Code classifies a failure for the caller.
type Code string

const (
	// CodeNotFound signals an absent event, task, expense, user or request.
	CodeNotFound Code = "not_found"
	// CodeNotAuthorized signals a failed role or access check.
	CodeNotAuthorized Code = "not_authorized"
	// CodeValidation signals malformed input: bad date range, missing
	// required field, non-positive amount, unassignable role.
	CodeValidation Code = "validation"
	// CodeConflict signals a state conflict: already a member, duplicate
	// join request, split mismatch, removing the organizer.
	CodeConflict Code = "conflict"
	// CodeStore signals a persistence failure the caller may retry.
	CodeStore Code = "store"
)

// Error is a code-carrying error. Construct with New, Newf or Wrap.
type Error struct {
	Code    Code
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates an underlying error with a code and message.
func Wrap(code Code, message string, err error) error {
	return &Error{Code: code, Message: message, err: err}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from err, or CodeStore for untyped errors so
// unexpected failures are never mistaken for domain rejections.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeStore
}

// MessageOf returns the caller-visible message for err. Untyped errors get
// a generic message so internals do not leak to clients.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
