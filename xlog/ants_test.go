package xlog

import (
	"bytes"
	"sync"
	"testing"
	"time"

	antsv2 "github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type testLockedBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *testLockedBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *testLockedBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

func TestAntsXLogger_Printf(t *testing.T) {
	var logger *AntsXLogger
	logger.Printf("test %d", 123)
	NewAntsXLogger(nil).Printf("test %d", 123)

	parentLogger, w := newTestMemLogger(t, WithXLoggerLevel(LogLevelDebug))
	logger = NewAntsXLogger(parentLogger)
	logger.Printf("test %d", 123)
	require.NoError(t, parentLogger.Sync())

	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "test 123", lines[0]["msg"])
	require.Equal(t, "ERROR", lines[0]["lvl"])
	require.Equal(t, "Ants", lines[0]["component"])
}

func TestAntsXLogger_AntsPool(t *testing.T) {
	w := &testLockedBuffer{}
	parentLogger := NewXLogger(
		WithXLoggerWriteSyncer(zapcore.AddSync(w)),
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerEncoder(JSON),
	)
	defer func() {
		require.NoError(t, parentLogger.Close())
	}()

	p, err := antsv2.NewPool(2, antsv2.WithLogger(NewAntsXLogger(parentLogger)))
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Submit(func() {
		panic("xlogger panic in ants pool")
	}))
	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(w.String()), []byte("xlogger panic in ants pool"))
	}, time.Second, 10*time.Millisecond)
}
