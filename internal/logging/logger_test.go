package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/factcheck/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestInitLogger_WritesToWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, err := InitLogger(config.LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("[Test] hidden")
	slog.Warn("[Test] shown", slog.String("key", "value"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[Test] shown")
	assert.Contains(t, out, "value")
}

func TestInitLogger_RotatedFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "factcheck.log")
	logger, err := InitLogger(config.LogConfig{
		Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1,
	}, nil)
	require.NoError(t, err)

	logger.Info("[Test] to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[Test] to file")
	assert.NotContains(t, string(data), "\x1b[", "file output must not carry ANSI colors")
}

func TestInitLogger_BadLevel(t *testing.T) {
	_, err := InitLogger(config.LogConfig{Level: "chatty"}, &bytes.Buffer{})
	assert.Error(t, err)
}
