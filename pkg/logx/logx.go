// Package logx provides the structured logger used by the batch process
// binaries. The API layer keeps gin's own logging; long-running reconcilers
// want leveled, fielded output instead.
package logx

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type contextKey string

const loggerKey contextKey = "logger"

// New creates a console logger with timestamps. Set LOG_JSON=1 to emit raw
// JSON lines instead (useful when piping into journald collectors).
func New() zerolog.Logger {
	if os.Getenv("LOG_JSON") == "1" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}

// NewWithWriter creates a logger with a custom writer (tests).
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// WithContext attaches the logger to a context.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from the context or returns a default one.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return New()
}
