package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestNewWithLevel_WritesToOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)

	log, err := NewWithLevel(Config{Format: "json", OutputPaths: []string{path}}, level)
	require.NoError(t, err)

	log.Info("dropped")
	level.SetLevel(zapcore.InfoLevel)
	log.Info("kept", zap.String("component", "test"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.Contains(t, string(data), `"component":"test"`)
}
