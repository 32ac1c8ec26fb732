// Package logrus provides a logger that writes to a
// github.com/sirupsen/logrus.Logger and implements the
// github.com/lduchosal/asyncsocket/log.Logger interface.
//
// Adapted from the teacher repo's pgx-inspired logrus adapter.
package logrus

import (
	"context"

	"github.com/sirupsen/logrus"

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
	l logrus.FieldLogger
}

func NewLogger(l logrus.FieldLogger) *Logger {
	return &Logger{l: l}
}

func (l *Logger) Log(ctx context.Context, level LogLevel, msg string, data map[string]interface{}) {
	logger := l.l
	for _, k := range fields.Ordered(data) {
		logger = logger.WithField(k, data[k])
	}

	switch level {
	case LogLevelTrace:
		logger.WithField("LOG_LEVEL", level).Debug(msg)
	case LogLevelDebug:
		logger.Debug(msg)
	case LogLevelInfo:
		logger.Info(msg)
	case LogLevelWarn:
		logger.Warn(msg)
	case LogLevelError:
		logger.Error(msg)
	default:
		logger.WithField("INVALID_LOG_LEVEL", level).Error(msg)
	}
}
