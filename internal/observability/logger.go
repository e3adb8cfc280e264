package observability

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process JSON logger at the given level name.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// ServiceLogger adapts *slog.Logger to the narrow Info/Error interface the
// services depend on.
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger) *ServiceLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceLogger{logger: logger}
}

func (l *ServiceLogger) Info(msg string) {
	l.logger.Info(msg)
}

func (l *ServiceLogger) Error(msg string) {
	l.logger.Error(msg)
}
