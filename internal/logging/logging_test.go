package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newJSONLogger(t *testing.T, level string) (*slog.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	l, err := New(Options{Level: level, Format: FormatJSON, Output: &buf})
	require.NoError(t, err)
	return l, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestHandlerWritesFields(t *testing.T) {
	t.Parallel()

	l, buf := newJSONLogger(t, "info")
	l.With(slog.String("tool", "save_record")).
		WithGroup("record").
		Info("Saved", slog.String("id", "42"), slog.Group("sections", slog.Int("count", 3)))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "Saved", lines[0]["msg"])
	require.Equal(t, "info", lines[0]["level"])
	require.Equal(t, "save_record", lines[0]["tool"])
	require.Equal(t, "42", lines[0]["record.id"])
	require.InDelta(t, 3, lines[0]["record.sections.count"], 0)
}

func TestHandlerFiltersLevel(t *testing.T) {
	t.Parallel()

	l, buf := newJSONLogger(t, "warn")
	l.Info("hidden")
	l.Debug("hidden")
	l.Warn("shown")
	l.Error("shown too")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	require.Equal(t, "warning", lines[0]["level"])
	require.Equal(t, "error", lines[1]["level"])
}

func TestNewRejectsUnknownOptions(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "loud"})
	require.Error(t, err)

	_, err = New(Options{Format: "xml"})
	require.Error(t, err)
}

func TestLoggerFromContext(t *testing.T) {
	t.Parallel()

	l, buf := newJSONLogger(t, "debug")
	ctx := ContextWithLogger(context.Background(), l)
	ctx = ContextWithRequestID(ctx, "req-1")

	require.Equal(t, "req-1", RequestIDFromContext(ctx))
	LoggerFromContext(ctx).Info("hello")
	RequestEnd(ctx, "load_record", false, time.Millisecond, errors.New("boom"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	require.Equal(t, "req-1", lines[0]["request_id"])
	require.Equal(t, "Request failed", lines[1]["msg"])
	require.Equal(t, "boom", lines[1]["error"])
	require.Equal(t, "load_record", lines[1]["operation"])
}

func TestLoggerFromContextFallsBackToDefault(t *testing.T) {
	t.Parallel()

	require.NotNil(t, LoggerFromContext(context.Background()))
	require.Empty(t, RequestIDFromContext(context.Background()))
}
