// Package logger configures zerolog for the service and carries a per-request
// logger through context.Context.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. An unknown level falls back to info.
// pretty switches to the human-readable console writer.
func Init(service, level string, pretty bool) zerolog.Logger {
	return InitWriter(os.Stdout, service, level, pretty)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, service, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Str("service", service).Logger()
	return log.Logger
}

// NewRequestID returns a fresh request id.
func NewRequestID() string { return uuid.NewString() }

// WithRequestID stores a child of the global logger tagged with id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	l := log.Logger.With().Str("request_id", id).Logger()
	return l.WithContext(ctx)
}

// From returns the logger stored in ctx, or the global logger.
func From(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
