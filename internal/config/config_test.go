package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "WARNING") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")

	// App
	t.Setenv("BASE_WEB_URL", "https://xemtarrot.vn")
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("DEBUG", "1")
	t.Setenv("SERVICE_DESCRIPTION", "custom description")
	t.Setenv("MANIFEST_PATH", "meta/app.yaml")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10

	// Web protection
	t.Setenv("ALLOWED_ORIGINS", " https://a.com/ , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}

	// App
	if cfg.BaseWebURL != "https://xemtarrot.vn" || cfg.Environment != "staging" ||
		!cfg.Debug || cfg.Description != "custom description" || cfg.ManifestPath != "meta/app.yaml" {
		t.Fatalf("app fields unexpected: %+v", cfg)
	}

	// Rate limiting fell back to defaults on parse failure
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate fields unexpected: rps=%v burst=%v", cfg.RateRPS, cfg.RateBurst)
	}

	// CORS origins trimmed, empties dropped, trailing slash stripped
	wantOrigins := []string{"https://a.com", "http://b"}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, wantOrigins) {
		t.Fatalf("origins = %v, want %v", cfg.CORS.AllowedOrigins, wantOrigins)
	}

	// Security + OTEL
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure ||
		cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_DefaultOriginIsBaseWebURL(t *testing.T) {
	t.Setenv("BASE_WEB_URL", "http://localhost:3000/")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := []string{"http://localhost:3000"}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
		t.Fatalf("origins = %v, want %v", cfg.CORS.AllowedOrigins, want)
	}
}

// --- Load validation failures ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"bad timeout", map[string]string{"READ_TIMEOUT": "-2s"}, "timeouts"},
		{"bad header bytes", map[string]string{"MAX_HEADER_BYTES": "-1"}, "MAX_HEADER_BYTES"},
		{"bad rate rps", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"bad rate burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"bad hsts", map[string]string{"HSTS_MAX_AGE": "-1h"}, "HSTS_MAX_AGE"},
		{"bad sampler", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load() err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

// --- helpers ---

func TestHelpers_ParseAndFallback(t *testing.T) {
	t.Setenv("H_STR", "v")
	t.Setenv("H_INT", "42")
	t.Setenv("H_FLOAT", "0.5")
	t.Setenv("H_BOOL", "off")
	t.Setenv("H_DUR", "90s")

	if getenv("H_STR", "d") != "v" || getenv("H_MISSING", "d") != "d" {
		t.Fatal("getenv")
	}
	if getint("H_INT", 1) != 42 || getint("H_MISSING", 1) != 1 {
		t.Fatal("getint")
	}
	if getfloat("H_FLOAT", 1) != 0.5 || getfloat("H_MISSING", 1) != 1 {
		t.Fatal("getfloat")
	}
	if getbool("H_BOOL", true) || !getbool("H_MISSING", true) {
		t.Fatal("getbool")
	}
	if getdur("H_DUR", time.Second) != 90*time.Second || getdur("H_MISSING", time.Second) != time.Second {
		t.Fatal("getdur")
	}
}

func TestNormalizeOrigins(t *testing.T) {
	got := normalizeOrigins([]string{"https://a.com///", "http://b", "/"})
	want := []string{"https://a.com", "http://b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalizeOrigins = %v, want %v", got, want)
	}
}
