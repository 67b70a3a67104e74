// Package httpapi wires the HTTP transport (Gin) to the middleware pipeline
// and route handlers. It centralizes cross-cutting concerns: protocol-probe
// admission, tracing, correlation IDs, logging, panic recovery, metrics,
// rate limiting, CORS, and security headers.
//
// Design goals:
//   - Reject hostile protocol probes before anything else runs
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - One error envelope for every failure path, including fallbacks
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/xemtarrot/tarot-api/internal/config"
	"github.com/xemtarrot/tarot-api/internal/http/handlers"
	"github.com/xemtarrot/tarot-api/internal/http/middleware"
)

// MountFunc registers externally supplied business endpoints on the API
// group. The shell owns the pipeline; the routes are collaborators.
type MountFunc func(api *gin.RouterGroup)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. Admission filter: reject PRI * probes before anything else
//  2. OpenTelemetry: trace legitimate requests
//  3. RequestID: generate/propagate correlation id
//  4. AccessLog: structured per-request logs
//  5. Recovery: panics become the 500 envelope, after the logger
//  6. Gzip + body size limiter
//  7. Metrics and /metrics endpoint
//  8. Rate limiter (per client IP)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, cfg config.Config, info handlers.Info, mount MountFunc) {
	r.HandleMethodNotAllowed = true

	// 1) Protocol-probe rejection, before CORS and tracing
	r.Use(middleware.Admission())

	// 2) Trace all surviving requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 3) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 4) Structured access logging
	r.Use(middleware.AccessLog())

	// 5) Panic recovery to the 500 envelope (with request id)
	r.Use(middleware.Recovery())

	// 6) Compression and global body size limit (1 MiB)
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(limitBody(1 << 20))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 9) CORS posture: allowed origins get the policy headers, everyone else
	// gets none (browser-side enforcement; the server never errors on origin)
	r.Use(corsPolicy(cfg.CORS.AllowedOrigins))

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks produce the same envelope as every other failure
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, "Not Found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	h := handlers.New(info)

	// Root info + liveness
	r.GET("/", handlers.Wrap(h.Root))
	r.GET("/health", handlers.Wrap(h.Health))

	// Swagger UI (optional)
	if cfg.SwaggerEnabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Business endpoints are supplied by the caller
	if mount != nil {
		mount(r.Group("/api/v1"))
	}
}

// corsPolicy builds the fixed cross-origin policy stage. Origins compare by
// exact match after trailing-slash normalization (the allowlist is already
// normalized at config load). Preflights from allowed origins are answered
// with the policy headers and never continue into route handlers.
func corsPolicy(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	apply := cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Authorization",
			"Content-Type",
			"Accept",
			"Origin",
			"User-Agent",
			"DNT",
			"Cache-Control",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length", "Content-Range"},
		AllowCredentials: true,
		MaxAge:           600 * time.Second,
	})

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		trimmed := strings.TrimRight(origin, "/")
		if _, ok := allowed[trimmed]; !ok {
			// Disallowed origins pass through with no CORS headers.
			c.Next()
			return
		}
		if trimmed != origin {
			// The inner matcher compares against the normalized allowlist.
			c.Request.Header.Set("Origin", trimmed)
		}
		apply(c)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
