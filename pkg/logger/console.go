package logger

import (
	"log/slog"
	"os"
)

// NewConsoleHandler is used by the command line tool, where records go to
// stderr so command output on stdout stays clean.
func NewConsoleHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}
