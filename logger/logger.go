package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger used across the bot. Every entry carries a
// trace id, the component that produced it and a free-form field map.
type Logger struct {
	zl *zap.Logger
}

func New(level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{zl: zl}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zl: zap.NewNop()}
}

func (l *Logger) Log(level zapcore.Level, traceID, message string, fields map[string]any, component string, err error) {
	if l == nil || l.zl == nil {
		return
	}

	zfields := make([]zap.Field, 0, len(fields)+3)
	zfields = append(zfields, zap.String("component", component))
	if traceID != "" {
		zfields = append(zfields, zap.String("traceID", traceID))
	}
	for k, v := range fields {
		zfields = append(zfields, zap.Any(k, v))
	}
	if err != nil {
		zfields = append(zfields, zap.Error(err))
	}

	if ce := l.zl.Check(level, message); ce != nil {
		ce.Write(zfields...)
	}
}

// Zap exposes the underlying logger for libraries that want one.
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

func (l *Logger) Sync() {
	_ = l.zl.Sync()
}
