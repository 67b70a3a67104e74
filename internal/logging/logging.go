// Package logging is the single point of truth for log formatting and routing.
//
// Every log line the process emits, application loggers, gin's internal
// output, and the HTTP server's error log alike, is rendered by one formatter
// into one sink:
//
//	2025-01-02 15:04:05.000 | INFO     | router:RegisterRoutes:42 - routes mounted
//
// Components obtain a named sub-logger via Named(). Legacy line-oriented
// emitters (stdlib log, gin.DefaultWriter, http.Server.ErrorLog) are routed
// through BridgeWriter / StdLogger so that no second output format can appear.
//
// A fixed set of chatty HTTP-client subsystem names is clamped to WARNING
// regardless of the configured level; see noisyLoggers.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// timeFormat matches the unified line template used across services.
const timeFormat = "2006-01-02 15:04:05.000"

// noisyLoggers are subsystem names whose output is clamped to WARNING no
// matter what the global level is. These are HTTP client transport internals
// that drown application signal at DEBUG.
var noisyLoggers = map[string]struct{}{
	"http.client":     {},
	"http.transport":  {},
	"http2.transport": {},
}

// Options configures Setup.
type Options struct {
	// Level is the minimum severity: debug|info|warn|warning|error
	// (case-insensitive). Unknown values fall back to info.
	Level string
	// Pretty enables ANSI level colors for local development.
	Pretty bool
	// Writer is the output sink. Defaults to os.Stdout.
	Writer io.Writer
}

// Setup (re-)initializes the process-wide logger. Calling it again replaces
// the previous sink registration entirely; nothing accumulates.
//
// It installs the unified formatter, sets the global minimum level, routes
// the stdlib "log" package through the sink, and returns the root logger.
func Setup(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	zerolog.TimeFieldFormat = timeFormat
	zerolog.CallerMarshalFunc = marshalCaller
	zerolog.SetGlobalLevel(ParseLevel(opts.Level))

	sinkMu.Lock()
	sink = &formatter{out: w, color: opts.Pretty}
	active := sink
	sinkMu.Unlock()

	root := zerolog.New(active).
		With().
		Timestamp().
		Caller().
		Str("logger", "app").
		Logger()
	log.Logger = root

	redirectStdlib()

	return root
}

var (
	sinkMu sync.Mutex
	sink   *formatter
)

// bare returns a caller-free logger for the bridge path: legacy lines carry
// no useful Go call site, so the location column shows the subsystem name
// alone.
func bare(name string) zerolog.Logger {
	sinkMu.Lock()
	w := sink
	sinkMu.Unlock()
	if w == nil {
		// Setup not called yet; fall back to the global logger's sink.
		return log.Logger.With().Str("logger", name).Logger()
	}
	lg := zerolog.New(w).With().Timestamp().Str("logger", name).Logger()
	if _, noisy := noisyLoggers[name]; noisy {
		lg = lg.Level(zerolog.WarnLevel)
	}
	return lg
}

// Named returns a sub-logger carrying the given subsystem name. Names in the
// noisy set are clamped to WARNING.
func Named(name string) zerolog.Logger {
	lg := log.Logger.With().Str("logger", name).Logger()
	if _, noisy := noisyLoggers[name]; noisy {
		lg = lg.Level(zerolog.WarnLevel)
	}
	return lg
}

// ParseLevel maps a level string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// marshalCaller renders the caller as "function:line", keeping only the bare
// function name (no package path).
func marshalCaller(pc uintptr, file string, line int) string {
	fn := "?"
	if f := runtime.FuncForPC(pc); f != nil {
		fn = f.Name()
		if i := strings.LastIndexByte(fn, '/'); i >= 0 {
			fn = fn[i+1:]
		}
		if i := strings.IndexByte(fn, '.'); i >= 0 {
			fn = fn[i+1:]
		}
	}
	return fn + ":" + strconv.Itoa(line)
}

// formatter consumes zerolog's JSON event stream and renders the unified
// line template. Writes are serialized so concurrent requests cannot
// interleave partial lines.
type formatter struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// levelName maps zerolog's lowercase level strings to the display names used
// in the line template. Unknown strings pass through uppercased, so a numeric
// or custom severity survives intact.
func levelName(s string) string {
	switch s {
	case zerolog.LevelTraceValue:
		return "TRACE"
	case zerolog.LevelDebugValue:
		return "DEBUG"
	case zerolog.LevelInfoValue:
		return "INFO"
	case zerolog.LevelWarnValue:
		return "WARNING"
	case zerolog.LevelErrorValue:
		return "ERROR"
	case zerolog.LevelFatalValue:
		return "FATAL"
	case zerolog.LevelPanicValue:
		return "PANIC"
	default:
		return strings.ToUpper(s)
	}
}

// ANSI colors per severity, applied to the level column only.
func levelColor(name string) string {
	switch name {
	case "DEBUG":
		return "\x1b[34m" // blue
	case "WARNING":
		return "\x1b[33m" // yellow
	case "ERROR", "FATAL", "PANIC":
		return "\x1b[31m" // red
	default:
		return "\x1b[32m" // green
	}
}

func (f *formatter) Write(p []byte) (int, error) {
	var evt map[string]any
	if err := json.Unmarshal(p, &evt); err != nil {
		// Never drop output: pass the raw line through.
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.out.Write(p)
	}

	ts, _ := evt[zerolog.TimestampFieldName].(string)
	lvl, _ := evt[zerolog.LevelFieldName].(string)
	msg, _ := evt[zerolog.MessageFieldName].(string)
	name, _ := evt["logger"].(string)
	caller, _ := evt[zerolog.CallerFieldName].(string)

	if name == "" {
		name = "app"
	}
	loc := name
	if caller != "" {
		loc += ":" + caller
	}

	display := levelName(lvl)
	padded := fmt.Sprintf("%-8s", display)
	if f.color {
		padded = levelColor(display) + padded + "\x1b[0m"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s | %s - %s", ts, padded, loc, msg)

	// Remaining structured fields are appended as key=value, sorted for
	// deterministic output.
	keys := make([]string, 0, len(evt))
	for k := range evt {
		switch k {
		case zerolog.TimestampFieldName, zerolog.LevelFieldName,
			zerolog.MessageFieldName, zerolog.CallerFieldName, "logger":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, evt[k])
	}
	b.WriteByte('\n')

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.WriteString(f.out, b.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}
