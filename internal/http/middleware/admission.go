// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the request admission filter, the very first stage of
// the pipeline. It rejects HTTP/2 prior-knowledge connection probes ("PRI *")
// sent by scanners to servers that only speak HTTP/1.1, before CORS headers
// are computed and before any route logic runs.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// priMethod is the connection-preface pseudo-method of an HTTP/2 upgrade
// probe ("PRI * HTTP/2.0").
const priMethod = "PRI"

// Admission returns a Gin middleware that rejects protocol-upgrade probes
// with a plain-text 400 and aborts the chain. Every other request passes
// through unmodified.
//
// The probe is expected hostile traffic, so no error-level log is emitted.
// This middleware must be installed before all other stages.
func Admission() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == priMethod && isWildcardTarget(c.Request) {
			c.String(http.StatusBadRequest, "Bad Request")
			c.Abort()
			return
		}
		c.Next()
	}
}

// isWildcardTarget reports whether the request target is the asterisk form.
// Depending on how the transport parsed the request line, the asterisk can
// surface in RequestURI or in the URL path.
func isWildcardTarget(r *http.Request) bool {
	return r.RequestURI == "*" || r.URL.Path == "*"
}
