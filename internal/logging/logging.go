// Package logging configures zerolog for the dataferry CLI and provides
// helpers for carrying loggers and trace IDs through context.
package logging

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Config describes the desired logging setup.
type Config struct {
	// Level is the minimum level to emit ("debug", "info", "warn", "error").
	// An unparseable level falls back to info.
	Level string

	// File is an optional log file path. Empty disables file output.
	File string
}

// Result reports how the logger was actually configured.
type Result struct {
	Logger zerolog.Logger

	// UsingFile is true when file output was requested and the file opened.
	UsingFile bool

	// FilePath is the opened log file path, when UsingFile is true.
	FilePath string

	// FallbackReason explains why file output was requested but not used.
	FallbackReason string
}

// New builds a logger from cfg. Console output always goes to stderr in
// human-readable form; when cfg.File is set, logs are duplicated to the file
// in JSON. A file that cannot be opened degrades to console-only with the
// reason recorded in the Result.
func New(cfg Config) Result {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	result := Result{}
	var writer io.Writer = console

	if cfg.File != "" {
		if mkErr := os.MkdirAll(filepath.Dir(cfg.File), 0o750); mkErr != nil {
			result.FallbackReason = fmt.Sprintf("cannot create log directory: %v", mkErr)
		} else if f, openErr := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640); openErr != nil {
			result.FallbackReason = fmt.Sprintf("cannot open log file: %v", openErr)
		} else {
			writer = zerolog.MultiLevelWriter(console, f)
			result.UsingFile = true
			result.FilePath = cfg.File
		}
	}

	result.Logger = zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
	return result
}

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger when
// none was attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// traceIDKey is the context key for the invocation trace ID.
type traceIDKey struct{}

// ContextWithTraceID attaches a trace ID to the context.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace ID attached to ctx, if any.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(traceIDKey{}).(string)
	return id, ok
}

// GetOrGenerateTraceID returns the trace ID already in ctx, or generates a
// fresh ULID. One ID is stamped per CLI invocation so every log line of a run
// can be correlated.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id, ok := TraceIDFromContext(ctx); ok && id != "" {
		return id
	}
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // Trace IDs are not security-sensitive.
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
