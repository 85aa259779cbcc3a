// Package logging provides the structured logger used across contentdesk.
//
// Call sites log through log/slog. Records are forwarded to a logrus logger, which owns
// formatting and output.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
)

// Options configures a logger.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string
	// Format is FormatText or FormatJSON. Empty means text.
	Format string
	// Output defaults to stderr.
	Output io.Writer
}

//nolint:gochecknoglobals // Process-wide default logger.
var defaultLogger atomic.Pointer[slog.Logger]

// New builds a logger from opts.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	lr := logrus.New()
	lr.SetLevel(logrus.TraceLevel)
	lr.SetOutput(os.Stderr)
	if opts.Output != nil {
		lr.SetOutput(opts.Output)
	}

	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		lr.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	case FormatJSON:
		lr.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return slog.New(NewHandler(lr, level)), nil
}

// ParseLevel parses a level name. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Default returns the process-wide logger. Until SetDefault is called it logs text at
// info level to stderr.
func Default() *slog.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l, _ := New(Options{})
	defaultLogger.CompareAndSwap(nil, l)
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *slog.Logger) {
	defaultLogger.Store(l)
}

// WithTool returns the default logger annotated with a tool name.
func WithTool(name string) *slog.Logger {
	return Default().With(slog.String("tool", name))
}

// ContextWithLogger stores l in ctx.
func ContextWithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// ContextWithRequestID stores a request correlation id in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// LoggerFromContext returns the logger stored in ctx, or the default logger. A request
// id stored in ctx is attached to it.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok || l == nil {
		l = Default()
	}
	if id := RequestIDFromContext(ctx); id != "" {
		l = l.With(slog.String("request_id", id))
	}
	return l
}

// WithContext is LoggerFromContext.
func WithContext(ctx context.Context) *slog.Logger {
	return LoggerFromContext(ctx)
}

// RequestStart logs the start of an operation with its argument names.
func RequestStart(ctx context.Context, operation string, args map[string]any) {
	names := make([]string, 0, len(args))
	for k := range args {
		names = append(names, k)
	}
	LoggerFromContext(ctx).DebugContext(ctx, "Request started",
		slog.String("operation", operation),
		slog.Any("arguments", names),
	)
}

// RequestEnd logs the outcome of an operation.
func RequestEnd(ctx context.Context, operation string, success bool, elapsed time.Duration, err error) {
	logger := LoggerFromContext(ctx)
	attrs := []any{
		slog.String("operation", operation),
		slog.Bool("success", success),
		slog.Duration("duration", elapsed),
	}
	if err != nil {
		logger.WarnContext(ctx, "Request failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	logger.InfoContext(ctx, "Request completed", attrs...)
}
