package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type testMemOutWriter struct {
	data []byte
}

func (w *testMemOutWriter) Write(p []byte) (n int, err error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *testMemOutWriter) Reset() {
	w.data = make([]byte, 0, 4096)
}

func (w *testMemOutWriter) lines(t *testing.T) []map[string]any {
	res := make([]map[string]any, 0, 8)
	for _, line := range bytes.Split(bytes.TrimSpace(w.data), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal(line, &m))
		res = append(res, m)
	}
	return res
}

func newTestMemLogger(t *testing.T, opts ...XLoggerOption) (XLogger, *testMemOutWriter) {
	w := &testMemOutWriter{data: make([]byte, 0, 4096)}
	registerOutWriter(testMemAsOut, zapcore.AddSync(w))
	opts = append([]XLoggerOption{WithXLoggerWriter(testMemAsOut)}, opts...)
	logger := NewXLogger(opts...)
	t.Cleanup(func() {
		require.NoError(t, logger.Close())
	})
	return logger, w
}

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
}

func TestGetLogLevelOrDefault(t *testing.T) {
	testcases := []struct {
		in       string
		expected zapcore.Level
	}{
		{"", zapcore.DebugLevel},
		{"  ", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"Error", zapcore.ErrorLevel},
		{"debug", zapcore.DebugLevel},
		{"unknown", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.expected, getLogLevelOrDefault(tc.in))
	}
}

func TestXLogger_EnvLevel(t *testing.T) {
	t.Setenv("XLOG_LVL", "warn")
	logger, w := newTestMemLogger(t)
	require.Equal(t, "warn", logger.Level())
	logger.Info("ignored")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())
	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "kept", lines[0]["msg"])
}

func TestXLogger_LevelAndFields(t *testing.T) {
	logger, w := newTestMemLogger(t, WithXLoggerLevel(LogLevelInfo))
	require.Equal(t, "info", logger.Level())

	logger.Debug("debug msg")
	logger.Info("info msg", zap.Int("key", 8))
	logger.Error(errors.New("boom"), "error msg")
	logger.Logf(zapcore.WarnLevel, "formatted %d", 17)
	require.NoError(t, logger.Sync())

	lines := w.lines(t)
	require.Len(t, lines, 3)
	require.Equal(t, "info msg", lines[0]["msg"])
	require.Equal(t, "INFO", lines[0]["lvl"])
	require.Equal(t, float64(8), lines[0]["key"])
	require.Equal(t, "error msg", lines[1]["msg"])
	require.Equal(t, "boom", lines[1]["error"])
	require.Equal(t, "formatted 17", lines[2]["msg"])

	w.Reset()
	logger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Debug("debug msg")
	require.NoError(t, logger.Sync())
	lines = w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "DEBUG", lines[0]["lvl"])
}

func TestXLogger_ContextFields(t *testing.T) {
	logger, w := newTestMemLogger(t,
		WithXLoggerContextFieldExtract("traceId", "trace"),
		WithXLoggerContextFieldExtract("service"),
		WithXLoggerContextFieldExtract("secret", ContextKeyMapToOmitempty),
		WithXLoggerContextFieldExtract(""),
	)

	ctx := context.WithValue(context.Background(), "traceId", "abc")
	logger.InfoContext(ctx, "ctx msg")
	logger.ErrorContext(ctx, errors.New("ctx err"), "ctx error")
	require.NoError(t, logger.Sync())

	lines := w.lines(t)
	require.Len(t, lines, 2)
	require.Equal(t, "abc", lines[0]["trace"])
	require.Equal(t, "nil", lines[0]["service"])
	_, exists := lines[0]["secret"]
	require.False(t, exists)
	require.Equal(t, "ctx err", lines[1]["error"])
}

func TestXLogger_InvalidOptions(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(_writerMax))
	})
}

func TestXLogger_PlainTextAndClose(t *testing.T) {
	logger, w := newTestMemLogger(t,
		WithXLoggerEncoder(PlainText),
		WithXLoggerLevelEncoder(nil),
		WithXLoggerTimeEncoder(nil),
	)
	logger.Warn("plain")
	require.NoError(t, logger.Sync())
	require.Contains(t, string(w.data), "plain")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())
}

func TestXLogger_WriteSyncer(t *testing.T) {
	w := &testMemOutWriter{data: make([]byte, 0, 4096)}
	logger := NewXLogger(WithXLoggerWriteSyncer(zapcore.AddSync(w)), WithXLoggerLevel(LogLevelDebug))
	logger.Debug("custom")
	require.NoError(t, logger.Close())
	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "custom", lines[0]["msg"])

	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriteSyncer(nil))
	})
}

func TestXLogger_StdOutClose(t *testing.T) {
	logger := NewXLogger(WithXLoggerLevel(LogLevelError))
	logger.Debug("never written")
	require.NoError(t, logger.Close())
}

func TestNamedXLogger(t *testing.T) {
	logger, w := newTestMemLogger(t)
	named := NewNamedXLogger(logger, "rbmap")
	named.Info("from component")
	require.NoError(t, named.Sync())
	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "rbmap", lines[0]["component"])
	require.Equal(t, logger.Level(), named.Level())
}
