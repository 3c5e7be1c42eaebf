package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skumerge/pkg/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.NotNil(t, cfg.Fields)
}

func TestNewLoggerFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{name: "debug", level: "debug", wantDebug: true, wantInfo: true},
		{name: "error only", level: "error", wantDebug: false, wantInfo: false},
		{name: "warning alias", level: "warning", wantDebug: false, wantInfo: false},
		{name: "unknown falls back to info", level: "loud", wantDebug: false, wantInfo: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.NewLoggerFromConfig(&logging.Config{
				Level:  tc.level,
				Format: "json",
				Output: "discard",
			}).Output(buf)

			logger.Debug().Msg("debug-line")
			logger.Info().Msg("info-line")

			assert.Equal(t, tc.wantDebug, strings.Contains(buf.String(), "debug-line"))
			assert.Equal(t, tc.wantInfo, strings.Contains(buf.String(), "info-line"))
		})
	}
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

func TestNewLoggerFromConfigDefaultFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "info",
		Format: "json",
		Output: "discard",
		Fields: map[string]any{"component": "engine", "attempt": 2},
	}).Output(buf)

	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"component":"engine"`)
	assert.Contains(t, buf.String(), `"attempt":2`)
}

func TestFileOutputRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skumerge.log")
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "info",
		Format: "auto",
		Output: path,
	})

	logger.Info().Str("file", "cin7.csv").Msg("parsed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"file":"cin7.csv"`)
}

func TestContextHelpers(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithSession(ctx, "sess-1")
	ctx = logging.WithFile(ctx, "zoho.csv")
	ctx = logging.WithSKU(ctx, "X1")
	ctx = logging.WithOperation(ctx, "merge")
	ctx = logging.WithFields(ctx, map[string]any{"records": 5})

	logging.FromContext(ctx).Info().Msg("context message")

	for _, want := range []string{`"session_id":"sess-1"`, `"file":"zoho.csv"`, `"sku":"X1"`, `"operation":"merge"`, `"records":5`} {
		tl.AssertContains(t, want)
	}
}

func TestRequestID(t *testing.T) {
	ctx := logging.WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", logging.RequestID(ctx))
	assert.Empty(t, logging.RequestID(context.Background()))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)

	logging.Info().Msg("first")
	logging.Warn().Msg("second")

	assert.Equal(t, 2, tl.Count())
	tl.Clear()
	assert.Equal(t, 0, tl.Count())
}
