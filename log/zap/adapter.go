// Package zap provides a logger that writes to a go.uber.org/zap.Logger and
// implements the github.com/lduchosal/asyncsocket/log.Logger interface.
//
// Adapted from the teacher repo's pgx-inspired zap adapter.
package zap

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lduchosal/asyncsocket/log/fields"
)

type LogLevel = int

// Log level constants matching the ones in github.com/lduchosal/asyncsocket/log
const (
	LogLevelTrace = 6
	LogLevelDebug = 5
	LogLevelInfo  = 4
	LogLevelWarn  = 3
	LogLevelError = 2
	LogLevelNone  = 1
)

type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

func (pl *Logger) Log(ctx context.Context, level LogLevel, msg string, data map[string]interface{}) {
	keys := fields.Ordered(data)
	zapFields := make([]zapcore.Field, len(keys))
	for i, k := range keys {
		zapFields[i] = zap.Any(k, data[k])
	}

	switch level {
	case LogLevelTrace:
		pl.logger.Debug(msg, append(zapFields, zap.Any("LOG_LEVEL", level))...)
	case LogLevelDebug:
		pl.logger.Debug(msg, zapFields...)
	case LogLevelInfo:
		pl.logger.Info(msg, zapFields...)
	case LogLevelWarn:
		pl.logger.Warn(msg, zapFields...)
	case LogLevelError:
		pl.logger.Error(msg, zapFields...)
	default:
		pl.logger.Error(msg, append(zapFields, zap.Any("INVALID_LOG_LEVEL", level))...)
	}
}
