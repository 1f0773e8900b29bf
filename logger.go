package tgsparser

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards all output. Sessions fall back
// to it when no logger is configured, so daemon lifecycle chatter never
// reaches a host application's output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
