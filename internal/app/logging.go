package app

import "time"

type Logger interface {
	Info(msg string)
	Error(msg string)
}

type logSink struct {
	logger Logger
}

func (l logSink) logInfo(msg string) {
	if l.logger == nil {
		return
	}
	l.logger.Info(msg)
}

func (l logSink) logError(msg string) {
	if l.logger == nil {
		return
	}
	l.logger.Error(msg)
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}
