package kmedgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with kmedgo-specific context.
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

// WithRank adds the worker rank to the logger.
func (l *Logger) WithRank(rank int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rank", rank),
	}
}

// LogIteration logs the outcome of one Lloyd iteration.
func (l *Logger) LogIteration(ctx context.Context, iter int, inertia float64) {
	l.DebugContext(ctx, "iteration completed",
		"iteration", iter,
		"inertia", inertia,
	)
}

// LogFallback logs an empty-cluster reseed.
func (l *Logger) LogFallback(ctx context.Context, cluster, row int) {
	l.DebugContext(ctx, "empty cluster reseeded",
		"cluster", cluster,
		"row", row,
	)
}

// LogFit logs the completion of a fit.
func (l *Logger) LogFit(ctx context.Context, iterations int, inertia float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"iterations", iterations,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "fit completed",
			"iterations", iterations,
			"inertia", inertia,
		)
	}
}
