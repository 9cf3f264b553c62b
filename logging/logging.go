// Package logging configures the structured logger used by the bridge.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LevelTrace is more verbose than slog.LevelDebug and is the default level.
const LevelTrace = slog.Level(-8)

// New returns a text logger writing to `w` that drops records below `level`.
func New(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(
		w,
		&slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: renameTraceLevel,
		},
	)
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError+1)
}

// ParseLevel converts a level name to a slog.Level. Names are case-insensitive.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("Unknown log level '%s'", name)
	}
}

// Trace logs at LevelTrace.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}

func renameTraceLevel(groups []string, attr slog.Attr) slog.Attr {
	if attr.Key != slog.LevelKey || len(groups) != 0 {
		return attr
	}
	if level, ok := attr.Value.Any().(slog.Level); ok && level <= LevelTrace {
		attr.Value = slog.StringValue("TRACE")
	}
	return attr
}
