package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ripple/config"
)

// Logger is a thin wrapper over slog so callers can mix key-value and
// printf-style calls without importing slog everywhere.
type Logger struct {
	l *slog.Logger
}

func NewLogger(cfg *config.Config) (*Logger, error) {
	level := parseLevel(cfg.LoggerMode.Level)

	var handler slog.Handler
	if cfg.LoggerMode.Prod {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return &Logger{l: slog.New(handler)}, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (log *Logger) Debug(msg string, args ...any) { log.l.Debug(msg, args...) }
func (log *Logger) Info(msg string, args ...any)  { log.l.Info(msg, args...) }
func (log *Logger) Warn(msg string, args ...any)  { log.l.Warn(msg, args...) }
func (log *Logger) Error(msg string, args ...any) { log.l.Error(msg, args...) }

func (log *Logger) Infof(format string, args ...any) {
	log.l.Info(fmt.Sprintf(format, args...))
}

func (log *Logger) Errorf(format string, args ...any) {
	log.l.Error(fmt.Sprintf(format, args...))
}
