package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Config(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultLogConfig()},
		{name: "empty", cfg: LogConfig{}},
		{name: "console stderr", cfg: LogConfig{Level: "debug", Format: "console", Output: "stderr"}},
		{name: "upper case level", cfg: LogConfig{Level: "WARN"}},
		{name: "bad level", cfg: LogConfig{Level: "loud"}, wantErr: true},
		{name: "bad format", cfg: LogConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routerd.log")
	logger, err := NewLogger(LogConfig{Output: path})
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, logger.Sync())
	assert.FileExists(t, path)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestLogger_Fields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewLoggerWithWriter(LogConfig{Level: "info"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Named("router").With(String("tier", "static")).Info("matched", Int("routes", 3))
	logger.Warn("shadowed", Bool("static", true))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "matched", lines[0]["message"])
	assert.Equal(t, "router", lines[0]["logger"])
	assert.Equal(t, "static", lines[0]["tier"])
	assert.Equal(t, float64(3), lines[0]["routes"])
	assert.Equal(t, "info", lines[0]["level"])

	assert.Equal(t, "warn", lines[1]["level"])
}

func TestLogger_WithContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewLoggerWithWriter(LogConfig{}, &buf)
	require.NoError(t, err)

	assert.Same(t, logger, logger.WithContext(context.Background()))

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithTraceID(ctx, "trace-1")
	ctx = ContextWithSpanID(ctx, "span-1")

	logger.WithContext(ctx).Info("request")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-1", lines[0]["request_id"])
	assert.Equal(t, "trace-1", lines[0]["trace_id"])
	assert.Equal(t, "span-1", lines[0]["span_id"])
}

func TestLogger_TimeFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewLoggerWithWriter(LogConfig{TimeFormat: "2006"}, &buf)
	require.NoError(t, err)

	logger.Info("x")
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0]["timestamp"], 4)
}

func TestContextIDs_Empty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, TraceIDFromContext(ctx))
	assert.Empty(t, SpanIDFromContext(ctx))
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NopLogger()
	logger.Info("discarded", String("k", "v"))
	assert.NotNil(t, logger.Named("x").With(Int("n", 1)))
	assert.NoError(t, logger.Sync())
}
