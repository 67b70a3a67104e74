// Package handlers provides the HTTP error-translation layer and the service
// info endpoints.
//
// This file defines the typed failure variants a route handler can return.
// Instead of relying on panics for control flow, handlers return one of:
//
//   - *HTTPError        a declared failure with an explicit status code
//   - *ValidationError  an inbound payload that failed schema validation
//   - any other error   treated as unhandled and answered with a 500
//
// The dispatcher in response.go pattern-matches these variants, logs full
// diagnostics, and emits the stable JSON envelope. The catch-all branch is
// the last resort and only fires when neither typed variant matches.
package handlers

import (
	"fmt"
	"net/http"
)

// HTTPError is a declared application failure: the handler intentionally
// signals a specific status code and a human-readable detail message.
type HTTPError struct {
	Status int
	Detail string
}

// NewHTTPError builds a declared failure. A non-positive status is coerced
// to 500 so a malformed declaration can never produce an invalid response.
func NewHTTPError(status int, detail string) *HTTPError {
	if status < 100 {
		status = http.StatusInternalServerError
	}
	return &HTTPError{Status: status, Detail: detail}
}

// Errorf builds a declared failure with a formatted detail message.
func Errorf(status int, format string, args ...any) *HTTPError {
	return NewHTTPError(status, fmt.Sprintf(format, args...))
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Detail)
}

// FieldError is one structured violation in a validation failure. Loc names
// the offending location from the outside in (e.g. ["body", "email"]), Msg
// is human-readable, Type is the failed rule (validator tag) or
// "json_invalid" for undecodable bodies.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError is an inbound payload that failed schema validation before
// reaching handler logic. Errors preserves validator order; Body keeps the
// raw request bytes for diagnostics (logged, never echoed back).
type ValidationError struct {
	Errors []FieldError
	Body   []byte
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("request validation failed: %d field error(s)", len(e.Errors))
}

// errTypeName is the dynamic type of err, used as the failure classification
// tag in the unhandled-error envelope.
func errTypeName(err error) string {
	return fmt.Sprintf("%T", err)
}
