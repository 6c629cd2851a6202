// Package logging builds the diagnostics logger. The CLI keeps its
// user-facing tables on plain stdout; zerolog carries everything else
// and stays silent unless verbose mode is on.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger on stderr, or a no-op logger when
// verbose is off so table output stays clean.
func New(verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}
