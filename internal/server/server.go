// Package server owns the HTTP server lifecycle: startup, signal-driven
// graceful shutdown, and wiring of the server's own error log into the
// unified sink.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/xemtarrot/tarot-api/internal/config"
	"github.com/xemtarrot/tarot-api/internal/logging"
)

// shutdownTimeout bounds how long in-flight requests may drain on shutdown.
const shutdownTimeout = 10 * time.Second

// Server wraps http.Server with config-driven timeouts and graceful
// shutdown on SIGINT/SIGTERM.
type Server struct {
	cfg  config.Config
	http *http.Server
	log  zerolog.Logger
}

// New builds a Server listening on all interfaces at the configured port.
func New(cfg config.Config, handler http.Handler) *Server {
	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:              "0.0.0.0:" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
			ErrorLog:          logging.StdLogger("http.server", zerolog.ErrorLevel),
		},
		log: logging.Named("server"),
	}
}

// Run serves until the context is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests and returns. A nil return means a clean stop;
// the process should exit 0.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Msgf("starting server on host=0.0.0.0, port=%s", s.cfg.Port)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info().Msg("received shutdown signal, shutting down gracefully...")
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shCtx); err != nil {
			return err
		}
		s.log.Info().Msg("server stopped")
		return nil
	}
}
