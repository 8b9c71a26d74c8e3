// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// ParseLevel maps debug, info, warn and error to a slog level. Anything else
// is reported as not ok and maps to info.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New returns a JSON logger writing to w with RFC3339 timestamps.
func New(level string, w io.Writer) *slog.Logger {
	lvl, ok := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}
	l := slog.New(slog.NewJSONHandler(w, opts))
	if !ok {
		l.Warn("invalid log level, defaulting to info", "configured", level)
	}
	return l
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
