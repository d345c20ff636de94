// Package diagnostics provides two colorized sinks — structured
// records with optional ANSI color rather than direct stdout writes —
// so the transform core stays testable. It wraps zerolog's global
// logger and carries its own small ANSI palette for the plain-text
// report that isn't itself a zerolog record.
package diagnostics

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ANSI palette for the plain-text transform report. Configure clears
// these to "" under --no-color.
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	bold        = "\033[1m"
)

var (
	debugColor = colorGreen
	warnColor  = colorRed
	noteColor  = colorYellow
	boldColor  = bold
	resetColor = colorReset
)

// RunID is a per-process correlation id stamped into verbose
// diagnostics, grounded on google/uuid.
var RunID = uuid.NewString()

// Configure wires the global zerolog logger to a colorized (or plain,
// under noColor) console writer, and sets the minimum visible level.
func Configure(quiet, verbose, noColor bool) {
	debugColor, warnColor, noteColor, boldColor, resetColor = colorGreen, colorRed, colorYellow, bold, colorReset
	var out io.Writer = colorable.NewColorableStdout()
	if noColor {
		out = os.Stdout
		debugColor, warnColor, noteColor, boldColor, resetColor = "", "", "", "", ""
	}

	writer := zerolog.ConsoleWriter{Out: out, NoColor: noColor, TimeFormat: "15:04:05"}
	logger := zerolog.New(writer).With().Timestamp().Str("run", RunID).Logger()

	level := zerolog.InfoLevel
	switch {
	case quiet:
		level = zerolog.WarnLevel
	case verbose:
		level = zerolog.DebugLevel
	}
	logger = logger.Level(level)
	log.Logger = logger
}

// Debug logs a debug-channel record (the green channel in the CLI's
// colorized report).
func Debug() *zerolog.Event { return log.Debug() }

// Warn logs a warn-channel record (the red channel): dropped edges,
// nonuniform input under --no-uniformize, internal nondeterminism.
func Warn() *zerolog.Event { return log.Warn() }
