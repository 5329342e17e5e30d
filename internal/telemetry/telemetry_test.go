package telemetry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetupWritesLogFile(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("OTEL_LOGS_EXPORTER", "none")
	t.Setenv("OTEL_METRICS_EXPORTER", "none")

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logFile := filepath.Join(t.TempDir(), "run.log")
	ctx := context.Background()

	client, err := Setup(ctx, "geosample-test", Options{Level: slog.LevelInfo, LogFile: logFile})
	require.NoError(t, err)

	slog.Debug("hidden")
	slog.Info("points written", "count", 42)

	require.NoError(t, client.Flush(ctx))
	require.NoError(t, client.Shutdown(ctx))

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"points written"`)
	assert.Contains(t, string(data), `"count":42`)
	assert.NotContains(t, string(data), "hidden")
}
