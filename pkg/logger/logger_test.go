package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}

func TestWithProviderAndEndpoint(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	core, logs := observer.New(level)
	log := newLogger(core, level)

	log.WithProvider("jsonrpc").WithEndpoint("http://localhost:3030").Info("sent %d transactions", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sent 3 transactions", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "jsonrpc", fields["provider"])
	assert.Equal(t, "http://localhost:3030", fields["endpoint"])
}

func TestLevelFiltering(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core, logs := observer.New(level)
	log := newLogger(core, level)

	log.Debug("hidden")
	log.Warn("shown")
	level.SetLevel(zapcore.DebugLevel)
	log.Debug("now shown")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
	assert.Equal(t, "now shown", logs.All()[1].Message)
}

func TestInitGlobalLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitGlobalLogger(dir, DebugLevel))
	t.Cleanup(func() {
		logMu.Lock()
		defaultLogger = nil
		logMu.Unlock()
	})

	GetLogger("jsonrpc", "").Debug("hello from test")
	// stderr may refuse fsync; the file core is unbuffered anyway
	_ = GetDefaultLogger().Sync()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), "Logging initialized at level DEBUG")
	assert.Equal(t, DefaultRotationConfig(), GetRotationConfig())
}
