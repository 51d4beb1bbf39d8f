// Package apperr defines the application's error taxonomy. Services
// return these typed errors; the HTTP layer maps each kind to a status
// code and a response envelope, and anything that is not an *Error is
// treated as internal and hidden from the caller.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuth
	KindForbidden
	KindRateLimit
)

// Error carries a kind, a stable machine-readable code and a
// human-readable message. Field is set for field-level validation
// failures; RetryAfter (seconds) is set for rate-limit rejections.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	Field      string
	RetryAfter int
	wrapped    error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// Wrap attaches an underlying cause, preserved for logs but never
// surfaced to the caller.
func (e *Error) Wrap(err error) *Error {
	e.wrapped = err
	return e
}

// Validation reports malformed or missing input. Field may be "".
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Code: "validation_failed", Message: message, Field: field}
}

// Invalid reports a well-formed request rejected by a business check,
// under a specific code. Transport mapping matches Validation.
func Invalid(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NotFound reports an unknown id, slug or order number.
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Message: what + " not found"}
}

// Conflict reports a business-rule collision: duplicate registration,
// duplicate review, insufficient stock, illegal state transition.
func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// Auth reports a missing, invalid or expired credential, e.g. codes
// "missing", "invalid", "expired", "invalid_credentials".
func Auth(code, message string) *Error {
	return &Error{Kind: KindAuth, Code: code, Message: message}
}

// Forbidden reports an authenticated caller without the required role
// or ownership.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "forbidden", Message: message}
}

// RateLimited reports a rejected request with a retry hint in seconds.
func RateLimited(retryAfter int) *Error {
	return &Error{
		Kind:       KindRateLimit,
		Code:       "rate_limited",
		Message:    "too many requests, slow down",
		RetryAfter: retryAfter,
	}
}

// Internal wraps an unexpected failure. The message shown to callers is
// generic; err stays attached for server-side logging.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: "something went wrong", wrapped: err}
}

// From extracts an *Error from err's chain, or nil.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	if e := From(err); e != nil {
		return e.Kind == kind
	}
	return false
}
