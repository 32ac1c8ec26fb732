// Package log15 provides a logger that writes to a
// github.com/inconshreveable/log15.Logger and implements the
// github.com/lduchosal/asyncsocket/log.Logger interface.
//
// Adapted from the teacher repo's pgx-inspired log15 adapter.
package log15

import (
	"context"

	"github.com/inconshreveable/log15"

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

// Wrapper for a log15.Logger to add the asyncsocket logging interface.
// Also exposes the log15.Logger interface directly so that it can be downcast
// to the log15.Logger.
type Logger struct {
	log15.Logger
}

func NewLogger(l log15.Logger) *Logger {
	return &Logger{l}
}

func (l *Logger) Log(ctx context.Context, level LogLevel, msg string, data map[string]interface{}) {
	keys := fields.Ordered(data)
	logArgs := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		logArgs = append(logArgs, k, data[k])
	}

	switch level {
	case LogLevelTrace:
		l.Debug(msg, append(logArgs, "LOG_LEVEL", level)...)
	case LogLevelDebug:
		l.Debug(msg, logArgs...)
	case LogLevelInfo:
		l.Info(msg, logArgs...)
	case LogLevelWarn:
		l.Warn(msg, logArgs...)
	case LogLevelError:
		l.Error(msg, logArgs...)
	default:
		l.Error(msg, append(logArgs, "INVALID_LOG_LEVEL", level)...)
	}
}
