// Legacy log interception.
//
// Embedded subsystems (stdlib log, gin's debug output, http.Server's error
// log) write plain text lines instead of structured events. BridgeWriter
// adapts those streams onto the unified sink: each line is re-emitted through
// the subsystem's named logger, with a leading severity token parsed off when
// one is recognized. Unrecognized tokens stay in the message and the line is
// logged at the writer's default level, so nothing is ever dropped.
package logging

import (
	"bytes"
	stdlog "log"

	"github.com/rs/zerolog"
)

// BridgeWriter returns an io.Writer that forwards line-oriented legacy log
// output through the unified sink under the given subsystem name. Lines
// without a recognizable severity token are emitted at defaultLevel.
//
// Typical wiring:
//
//	gin.DefaultWriter = logging.BridgeWriter("gin", zerolog.DebugLevel)
//	gin.DefaultErrorWriter = logging.BridgeWriter("gin", zerolog.ErrorLevel)
func BridgeWriter(name string, defaultLevel zerolog.Level) *bridgeWriter {
	return &bridgeWriter{name: name, def: defaultLevel}
}

// StdLogger builds a *log.Logger for APIs that require one (for example
// http.Server.ErrorLog), backed by a BridgeWriter.
func StdLogger(name string, defaultLevel zerolog.Level) *stdlog.Logger {
	return stdlog.New(BridgeWriter(name, defaultLevel), "", 0)
}

// redirectStdlib routes the stdlib global logger through the sink. Called by
// Setup; replaces any previous destination.
func redirectStdlib() {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(BridgeWriter("stdlog", zerolog.InfoLevel))
}

type bridgeWriter struct {
	name string
	def  zerolog.Level
}

func (w *bridgeWriter) Write(p []byte) (int, error) {
	lg := bare(w.name)
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		lvl, msg := splitLevelToken(string(line), w.def)
		lg.WithLevel(lvl).Msg(msg)
	}
	return len(p), nil
}

// splitLevelToken strips a recognized leading severity token from a legacy
// line and returns the mapped level plus the remaining message. When the
// token is not recognized, the original line is returned unchanged with the
// fallback level.
func splitLevelToken(line string, fallback zerolog.Level) (zerolog.Level, string) {
	type token struct {
		prefix string
		level  zerolog.Level
	}
	tokens := []token{
		{"[GIN-debug] ", zerolog.DebugLevel},
		{"[GIN] ", zerolog.InfoLevel},
		{"DEBUG: ", zerolog.DebugLevel},
		{"INFO: ", zerolog.InfoLevel},
		{"WARNING: ", zerolog.WarnLevel},
		{"WARN: ", zerolog.WarnLevel},
		{"ERROR: ", zerolog.ErrorLevel},
		// net/http server prefixes its complaints with "http:".
		{"http: ", zerolog.ErrorLevel},
	}
	for _, t := range tokens {
		if len(line) >= len(t.prefix) && line[:len(t.prefix)] == t.prefix {
			return t.level, line[len(t.prefix):]
		}
	}
	return fallback, line
}
