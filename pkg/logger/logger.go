package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// HandlerFactory builds a slog.Handler writing to w at the given level.
type HandlerFactory func(w io.Writer, level slog.Level) slog.Handler

func New(level string, factory HandlerFactory) *slog.Logger {
	return slog.New(factory(os.Stdout, ParseLevel(level)))
}

// ParseLevel maps LOGLEVEL values to slog levels, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func NewTestHandler(_ io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}
