// Package observability provides structured logging and request tracing
// utilities shared by every component of the retrieval engine.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with trace id propagation. Unlike an LLM
// gateway, nothing this engine logs carries upstream secrets (query text,
// shard ids, timings, candidate counts) so no redaction layer is needed.
type Logger struct {
	logger *slog.Logger
}

// LoggerConfig contains configuration for the logger.
type LoggerConfig struct {
	Level      slog.Level
	Output     io.Writer
	AddSource  bool
	JSONFormat bool
}

// NewLogger creates a new logger from cfg.
func NewLogger(cfg LoggerConfig) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return &Logger{logger: slog.New(handler)}
}

// WithRequestID returns a logger annotated with the request id from ctx
// (the same id carried through C1-C5 as a trace id). If ctx carries
// none, l is returned unchanged.
func (l *Logger) WithRequestID(ctx context.Context) *Logger {
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		return l
	}
	return &Logger{logger: l.logger.With("request_id", requestID)}
}

// WithFields returns a logger with additional structured fields attached.
func (l *Logger) WithFields(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// Slog returns the underlying slog.Logger, for callers that want direct
// access (e.g. to pass into a library that accepts *slog.Logger).
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

// Info logs at INFO level.
func (l *Logger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

// Error logs at ERROR level.
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// With returns a logger with additional fields, an alias for WithFields
// kept for symmetry with slog.Logger.With.
func (l *Logger) With(args ...any) *Logger {
	return l.WithFields(args...)
}
