// Package slog provides a logger that writes
// to a log/slog.Logger and implements the
// github.com/lduchosal/asyncsocket/log.Logger interface.
package slog

import (
	"context"

	"log/slog"

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

// Wrapper for a slog.Logger to add the asyncsocket logging interface. The
// wrapped *slog.Logger is held in an unexported field and is not exposed.
type Logger struct {
	inner *slog.Logger
}

func NewLogger(l *slog.Logger) *Logger {
	return &Logger{l}
}

func (l *Logger) Log(ctx context.Context, level LogLevel, msg string, data map[string]interface{}) {
	// slog's Error method takes no separate error argument, so an error value
	// is rendered as an ordinary field, in fields.Ordered's position.
	keys := fields.Ordered(data)
	logArgs := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		logArgs = append(logArgs, k, data[k])
	}

	switch level {
	case LogLevelTrace:
		l.inner.Debug(msg, append(logArgs, "LOG_LEVEL", level)...)
	case LogLevelDebug:
		l.inner.Debug(msg, logArgs...)
	case LogLevelInfo:
		l.inner.Info(msg, logArgs...)
	case LogLevelWarn:
		l.inner.Warn(msg, logArgs...)
	case LogLevelError:
		l.inner.Error(msg, logArgs...)
	default:
		l.inner.Error(msg, append(logArgs, "INVALID_LOG_LEVEL", level)...)
	}
}
