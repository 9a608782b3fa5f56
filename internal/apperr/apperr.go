// Package apperr defines the closed set of application failure kinds and
// their mapping to HTTP statuses and envelope codes.
package apperr

import (
	"errors"
	"net/http"
)

// Codes used in the error envelope. The set is closed: handlers translate
// exactly these and nothing else.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeValidation   = "VALIDATION_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL"
)

// Error is a typed application failure carrying the envelope code,
// the HTTP status it translates to, and a client-safe message.
type Error struct {
	// Code is one of the Code* constants above.
	Code string
	// Status is the HTTP status the boundary writes for this failure.
	Status int
	// Message is safe to return to the client.
	Message string
	// Details carries optional structured context (e.g. validation fields).
	Details any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error with the same code, so that
// errors.Is(err, apperr.NotFound("")) works regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NotFound reports an absent resource, or one filtered out by ownership scoping.
func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

// Conflict reports a duplicate unique key.
func Conflict(message string) *Error {
	if message == "" {
		message = "Resource conflict"
	}
	return &Error{Code: CodeConflict, Status: http.StatusConflict, Message: message}
}

// Unauthorized reports a missing, invalid, or expired credential. All
// authentication failures share this single kind so the response never
// leaks which verification step failed.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "Not authenticated"
	}
	return &Error{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

// Forbidden reports an authenticated caller that does not own the resource.
func Forbidden(message string) *Error {
	if message == "" {
		message = "Access denied"
	}
	return &Error{Code: CodeForbidden, Status: http.StatusForbidden, Message: message}
}

// Validation reports malformed input. details may carry per-field context.
func Validation(message string, details any) *Error {
	if message == "" {
		message = "Validation error"
	}
	return &Error{Code: CodeValidation, Status: http.StatusUnprocessableEntity, Message: message, Details: details}
}

// RateLimited reports an exceeded request window.
func RateLimited() *Error {
	return &Error{
		Code:    CodeRateLimited,
		Status:  http.StatusTooManyRequests,
		Message: "Too many requests. Please try again later.",
	}
}

// Internal wraps anything outside the taxonomy. The message shown to the
// client is always generic; the cause is logged server-side only.
func Internal() *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "Internal server error"}
}
