package apilevel

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with knowledge-base specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger

	// corrupt throttles repeated corruption warnings.
	corrupt *rate.Sometimes
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return newLogger(slog.New(handler))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return newLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return newLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return newLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newLogger(l *slog.Logger) *Logger {
	return &Logger{
		Logger:  l,
		corrupt: &rate.Sometimes{First: 1, Interval: time.Minute},
	}
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{Logger: l.Logger.With("path", path), corrupt: l.corrupt}
}

// LogLoad logs the outcome of loading a knowledge base.
func (l *Logger) LogLoad(ctx context.Context, path string, source Source, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"path", path,
			"source", source,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "knowledge base loaded",
		"path", path,
		"source", source,
		"bytes", size,
	)
}

// LogRegenerate logs a rebuild of the knowledge base from its descriptor.
func (l *Logger) LogRegenerate(ctx context.Context, path string, reason Reason, classes, members int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "regeneration failed",
			"path", path,
			"reason", reason,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "knowledge base regenerated",
		"path", path,
		"reason", reason,
		"classes", classes,
		"members", members,
	)
}

// LogCorrupt warns about an unusable knowledge base file. Repeated warnings
// are limited to one per minute.
func (l *Logger) LogCorrupt(ctx context.Context, path string, err error) {
	l.corrupt.Do(func() {
		l.WarnContext(ctx, "unusable knowledge base; delete the file and retry if this persists",
			"path", path,
			"error", err,
		)
	})
}

// LogFallback logs that queries are answered from the in-memory model.
func (l *Logger) LogFallback(ctx context.Context, path string, err error) {
	l.WarnContext(ctx, "serving queries from the api model",
		"path", path,
		"error", err,
	)
}
