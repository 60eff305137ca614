// Package logging configures the process-wide zerolog logger.
//
// The core deliberately swallows most collaborator and persistence
// failures (stale index ids, save errors, completion errors turned into
// apologies); this logger is where those failures remain visible.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the shared logger instance. Packages log through this rather
// than constructing their own.
var Logger = zerolog.New(io.Discard)

// Init sets up the shared logger. Verbose enables debug-level console
// output; otherwise only warnings and above are emitted.
func Init(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}
