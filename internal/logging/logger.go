// Package logging constructs the process logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a structured logger writing to stderr, keeping stdout free
// for command output. When debug is true the logger uses DEBUG level and
// includes source locations; otherwise it stays at WARN so normal runs
// emit nothing.
func New(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
}

// NewNopLogger returns a logger that discards everything, for tests.
func NewNopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1,
	}))
}
