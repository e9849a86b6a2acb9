package liveness

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with liveness-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithTable adds a table field to the logger.
func (l *Logger) WithTable(table string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", table),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogMark logs a mark-killed operation.
func (l *Logger) LogMark(ctx context.Context, table string, res *KillResult, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mark killed failed",
			"table", table,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "mark killed completed",
		"table", table,
		"requested", res.Requested,
		"resolved", res.Resolved,
		"newly_killed", res.NewlyKilled,
		"already_killed", res.AlreadyKilled,
		"unresolved", len(res.Unresolved),
	)
}

// LogReport logs a killed-documents report operation.
func (l *Logger) LogReport(ctx context.Context, table string, rep *Report, err error) {
	if err != nil {
		l.ErrorContext(ctx, "report failed",
			"table", table,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "report completed",
		"table", table,
		"killed", len(rep.DocIDs),
		"orphans", rep.Orphans,
	)
}

// LogIncompleteTable warns that a lookup table decoded with fewer entries
// than its header promised.
func (l *Logger) LogIncompleteTable(ctx context.Context, table string, decoded, expected int) {
	l.WarnContext(ctx, "lookup table decoded incompletely",
		"table", table,
		"decoded", decoded,
		"expected", expected,
	)
}
