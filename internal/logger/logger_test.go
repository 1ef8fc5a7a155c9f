package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerPassesLevelAndKey(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core, zap.AddCaller()).Sugar())

	log.DebugObj("debug msg", "leg_publish", map[string]any{"delivered": 1})
	log.InfoObj("info msg", "leg", "credit")
	log.WarnObj("warn msg", "journal", "full")
	log.ErrorObj("error msg", "error", "boom")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	want := []struct {
		level zapcore.Level
		msg   string
		key   string
	}{
		{zapcore.DebugLevel, "debug msg", "leg_publish"},
		{zapcore.InfoLevel, "info msg", "leg"},
		{zapcore.WarnLevel, "warn msg", "journal"},
		{zapcore.ErrorLevel, "error msg", "error"},
	}
	for i, w := range want {
		e := entries[i]
		assert.Equal(t, w.level, e.Level)
		assert.Equal(t, w.msg, e.Message)
		assert.Contains(t, e.ContextMap(), w.key)
		require.True(t, e.Caller.Defined)
		assert.Equal(t, "logger_test.go", filepath.Base(e.Caller.File), "caller should be the call site, not the adapter")
	}
	assert.Equal(t, "credit", entries[1].ContextMap()["leg"])
}

func TestZapLoggerRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := New(zap.New(core).Sugar())

	log.DebugObj("dropped", "k", 1)
	log.InfoObj("dropped", "k", 1)
	log.WarnObj("kept", "k", 1)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestNewWithNilIsNop(t *testing.T) {
	log := New(nil)
	assert.IsType(t, NopLogger{}, log)
	assert.NotPanics(t, func() { log.ErrorObj("msg", "k", 1) })
}

func TestPackageHelpersUseGlobalLogger(t *testing.T) {
	prev := S
	t.Cleanup(func() { S = prev })

	S = nil
	assert.NotPanics(t, func() { InfoObj("before init", "k", 1) })

	core, logs := observer.New(zapcore.InfoLevel)
	S = zap.New(core).Sugar()
	InfoObj("after init", "demo_meta", "x")

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap(), "demo_meta")
}
