// Request body binding with structured validation diagnostics.
//
// BindJSON is the admission point for inbound payloads: it keeps the raw
// body for diagnostics, runs gin's JSON binding and validator, and converts
// failures into the *ValidationError variant understood by the dispatcher.
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// BindJSON decodes the request body into dst and validates it.
//
// On failure it returns *ValidationError carrying the ordered field-error
// records and the raw body. A body that cannot be decoded at all yields a
// single record with type "json_invalid", keeping the 422 contract uniform.
// The body is restored on the request so later stages can still read it.
func BindJSON(c *gin.Context, dst any) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "could not read request body")
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if err := binding.JSON.BindBody(body, dst); err != nil {
		return &ValidationError{Errors: fieldErrors(err), Body: body}
	}
	return nil
}

// fieldErrors converts a binding error into ordered field-error records.
func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{
				Loc:  []string{"body", strings.ToLower(fe.Field())},
				Msg:  fmt.Sprintf("field validation failed on the '%s' rule", fe.Tag()),
				Type: fe.Tag(),
			})
		}
		return out
	}
	// Undecodable JSON (syntax error, type mismatch before validation).
	return []FieldError{{
		Loc:  []string{"body"},
		Msg:  err.Error(),
		Type: "json_invalid",
	}}
}
