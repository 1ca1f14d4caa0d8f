package quantumflow

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with engine-specific context.
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
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithStrategy adds a strategy field to the logger.
func (l *Logger) WithStrategy(strategy string) *Logger {
	return &Logger{Logger: l.Logger.With("strategy", strategy)}
}

// WithSize adds a size field to the logger.
func (l *Logger) WithSize(size int) *Logger {
	return &Logger{Logger: l.Logger.With("size", size)}
}

// LogCompress logs a compression operation.
func (l *Logger) LogCompress(ctx context.Context, originalSize, compressedSize int, strategy string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compression failed",
			"original_size", originalSize,
			"strategy", strategy,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "compression completed",
			"original_size", originalSize,
			"compressed_size", compressedSize,
			"strategy", strategy,
		)
	}
}

// LogDecompress logs a decompression operation.
func (l *Logger) LogDecompress(ctx context.Context, frameSize, restoredSize int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decompression failed",
			"frame_size", frameSize,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "decompression completed",
			"frame_size", frameSize,
			"restored_size", restoredSize,
		)
	}
}

// LogCorrection logs an error-correction session.
func (l *Logger) LogCorrection(ctx context.Context, attempts, detected, corrected int, success bool) {
	if !success {
		l.WarnContext(ctx, "correction exhausted",
			"attempts", attempts,
			"detected", detected,
			"corrected", corrected,
		)
	} else {
		l.DebugContext(ctx, "correction completed",
			"attempts", attempts,
			"detected", detected,
			"corrected", corrected,
		)
	}
}

// LogDegradation logs a graceful-degradation pass.
func (l *Logger) LogDegradation(ctx context.Context, reason, strategy string, ratio float64) {
	l.InfoContext(ctx, "degraded to classical compression",
		"reason", reason,
		"strategy", strategy,
		"ratio", ratio,
	)
}

// LogArchive logs an archive store operation.
func (l *Logger) LogArchive(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "archive put failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "frame archived",
			"name", name,
			"size", size,
		)
	}
}
