package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{zl: zap.New(core)}

	l.Log(zapcore.ErrorLevel, "trace-1", "selection failed", map[string]any{
		"method":    "RunSelection",
		"errorType": "NO_CANDIDATES",
	}, "SERVICE", errors.New("boom"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "selection failed", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "SERVICE", ctx["component"])
	assert.Equal(t, "trace-1", ctx["traceID"])
	assert.Equal(t, "RunSelection", ctx["method"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLogRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := &Logger{zl: zap.New(core)}

	l.Log(zapcore.InfoLevel, "", "quiet", nil, "SERVICE", nil)
	assert.Equal(t, 0, logs.Len())
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Log(zapcore.InfoLevel, "", "msg", nil, "SERVICE", nil)
	})
}
