package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/strngrthnall/bridge-telemetria/pkg/config"
	"github.com/strngrthnall/bridge-telemetria/pkg/logger"
)

// mockFatalHook 捕获 fatal 日志（不退出进程）
type mockFatalHook struct {
	called bool
}

func (h *mockFatalHook) OnWrite(e *zapcore.CheckedEntry, _ []zapcore.Field) {
	if e.Level == zapcore.FatalLevel {
		h.called = true
	}
}

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	if logger.Initialized() {
		t.Skip("logger already initialized by another test")
	}
	assert.NotPanics(t, func() {
		logger.Info("before init")
		logger.Named("test").Warn("before init")
	})
	assert.NoError(t, logger.Sync())
}

func TestLoggerLevels(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.ZapLogConfig{
		Level:   "debug",
		Format:  "console",
		Path:    dir,
		MaxSize: 1,
		MaxAge:  1,
	}

	l, err := logger.InitLogger(cfg, "test")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.True(t, logger.Initialized())

	// 普通日志
	logger.Debug("debug msg")
	logger.Info("info msg", zap.String("peer", "127.0.0.1:1"))
	logger.Warn("warn msg")
	logger.Error("error msg")
	logger.Named("session").Info("component msg")

	// Panic 测试
	assert.Panics(t, func() { logger.Panic("panic msg") })

	// Fatal 测试（自定义 hook，不触发 os.Exit）
	hook := &mockFatalHook{}
	logger.GetLogger().WithOptions(zap.WithFatalHook(hook)).Fatal("fatal msg")
	assert.True(t, hook.called, "fatal hook was not triggered")

	_ = logger.Sync()

	matches, err := filepath.Glob(filepath.Join(dir, "test-*.log"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "rotated log file should exist")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"info msg"`)
	assert.Contains(t, string(data), `"component":"session"`)
	assert.Contains(t, string(data), `"goid":`)
}
