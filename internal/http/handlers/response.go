// Package handlers provides the HTTP error-translation layer and the service
// info endpoints.
//
// This file is the single dispatcher that turns a handler's returned error
// into the stable JSON envelope. Every failure path yields exactly one
// envelope with a valid status code; nothing unformatted ever reaches the
// transport layer, and every failure is logged before translation.
//
// Envelope shapes:
//
//	declared failure   →  <status>  {"detail": "<message>"}
//	validation failure →  422       {"detail": [{"loc":…,"msg":…,"type":…}, …]}
//	unhandled failure  →  500       {"detail": "Internal server error",
//	                                 "error_type": "<type>",
//	                                 "error_message": "<message>"}
package handlers

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/xemtarrot/tarot-api/internal/http/middleware"
)

// HandlerFunc is a route handler that reports failure by returning a typed
// error variant instead of writing an error response itself.
type HandlerFunc func(c *gin.Context) error

// ErrorEnvelope is the stable JSON shape returned for any failed request.
// Detail is a string for declared failures and an ordered list of FieldError
// records for validation failures. ErrorType and ErrorMessage are populated
// for unhandled failures only.
type ErrorEnvelope struct {
	Detail       any    `json:"detail"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Wrap adapts a HandlerFunc into a gin.HandlerFunc, dispatching any returned
// error to the matching translation branch. The most specific variant wins;
// the unhandled branch is the fallback only when neither typed kind matches.
func Wrap(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := h(c)
		if err == nil {
			return
		}
		Translate(c, err)
	}
}

// Translate logs full diagnostics for err and writes the corresponding
// envelope. Exported so the router's fallback handlers (NoRoute, NoMethod)
// can produce the same contract.
func Translate(c *gin.Context, err error) {
	lg := middleware.LoggerFrom(c)

	var httpErr *HTTPError
	var valErr *ValidationError
	switch {
	case errors.As(err, &httpErr):
		lg.Error().
			Int("status", httpErr.Status).
			Str("detail", httpErr.Detail).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("http error")
		c.AbortWithStatusJSON(httpErr.Status, ErrorEnvelope{Detail: httpErr.Detail})

	case errors.As(err, &valErr):
		lg.Error().
			Str("path", c.Request.URL.Path).
			Interface("errors", valErr.Errors).
			Bytes("body", valErr.Body).
			Msg("validation error")
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorEnvelope{Detail: valErr.Errors})

	default:
		lg.Error().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("error_type", errTypeName(err)).
			Str("error_message", err.Error()).
			Bytes("stack", debug.Stack()).
			Msg("unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorEnvelope{
			Detail:       "Internal server error",
			ErrorType:    errTypeName(err),
			ErrorMessage: err.Error(),
		})
	}
}

// Fail writes a declared failure directly; a convenience for fallback routes.
func Fail(c *gin.Context, status int, detail string) {
	Translate(c, NewHTTPError(status, detail))
}
