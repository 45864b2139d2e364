// Package enginelog is the ambient structured-logging setup shared by
// the workbook, persistence, and notify packages: a thin wrapper around
// log/slog so call sites log through one consistent surface.
package enginelog

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a logger writing JSON-formatted records to w at the given
// level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Default returns a logger writing to stderr at info level, suitable as
// a zero-configuration default for callers that never set one up.
func Default() *slog.Logger {
	return New(os.Stderr, slog.LevelInfo)
}

// Discard returns a logger that drops every record, for tests and for
// callers who opt out of logging entirely.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString converts a level name to a slog.Level, case
// insensitively. Unrecognized names fall back to info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
