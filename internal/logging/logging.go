// Package logging configures the process-wide structured logger.
//
// gamedex prints the catalog snapshot on stdout for launcher frontends,
// so diagnostics always go to stderr regardless of format.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gamedex/internal/config"
)

var logger *slog.Logger

// Setup installs the global logger from the config's logging section.
func Setup(cfg config.Logging) {
	logger = New(cfg, os.Stderr)
	slog.SetDefault(logger)
}

// New builds a logger writing to the given sink. Setup passes stderr;
// tests pass a buffer.
func New(cfg config.Logging, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the configured logger, or the default if not set up.
func Get() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}
