// Service info endpoints.
//
// The business API is mounted separately by the router; this file only
// serves the root informational endpoint and the liveness probe.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Info is the static service metadata served by the root endpoint. Both
// fields are fixed at startup: Message comes from configuration and Version
// from the packaging manifest (or its fallback).
type Info struct {
	Message string
	Version string
}

// Handlers groups the service info endpoints.
type Handlers struct {
	info Info
}

// New constructs a Handlers instance bound to the given service metadata.
func New(info Info) *Handlers {
	return &Handlers{info: info}
}

// RootResponse is the body of GET /.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// Root serves GET / with the service description and version.
func (h *Handlers) Root(c *gin.Context) error {
	c.JSON(http.StatusOK, RootResponse{
		Message: h.info.Message,
		Version: h.info.Version,
	})
	return nil
}

// Health serves GET /health as a liveness probe.
func (h *Handlers) Health(c *gin.Context) error {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
	return nil
}
