// Command tarot-api runs the HTTP service shell: it wires configuration, the
// unified log sink, version discovery, tracing, the middleware pipeline, and
// the server lifecycle. Business route handlers are mounted by this
// composition root as they come online.
package main

import (
	"context"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/xemtarrot/tarot-api/internal/config"
	httpapi "github.com/xemtarrot/tarot-api/internal/http"
	"github.com/xemtarrot/tarot-api/internal/http/handlers"
	"github.com/xemtarrot/tarot-api/internal/logging"
	"github.com/xemtarrot/tarot-api/internal/manifest"
	"github.com/xemtarrot/tarot-api/internal/observability"
	"github.com/xemtarrot/tarot-api/internal/server"
)

func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	logging.Setup(logging.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	lg := logging.Named("main")
	lg.Info().Msgf("logging initialized with level: %s", strings.ToUpper(cfg.LogLevel))
	lg.Info().Msgf("CORS allowed origins: %v", cfg.CORS.AllowedOrigins)

	// Route gin's own output through the unified sink.
	gin.SetMode(cfg.GinMode)
	gin.DefaultWriter = logging.BridgeWriter("gin", zerolog.DebugLevel)
	gin.DefaultErrorWriter = logging.BridgeWriter("gin", zerolog.ErrorLevel)

	version := manifest.Version(cfg.ManifestPath, func(err error) {
		lg.Warn().Msgf("could not read version from manifest: %v", err)
	})
	lg.Info().Msgf("service version: %s", version)

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		lg.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() { _ = shutdownOTel(ctx) }()

	r := gin.New()
	httpapi.RegisterRoutes(r, cfg, handlers.Info{
		Message: cfg.Description,
		Version: version,
	}, nil)
	lg.Info().Msg("application startup complete")

	if err := server.New(cfg, r).Run(ctx); err != nil {
		lg.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
