// Package logger provides the structured logging used by the cssmin command
// and server.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/benbjohnson/cssmin/diag"
)

// Global logger instance
var defaultLogger *slog.Logger

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel returns the level for "debug", "info", "warn" or "error".
func ParseLevel(s string) (LogLevel, bool) {
	switch s {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// Config holds logger configuration
type Config struct {
	Level  LogLevel
	Format string // "text" or "json"
	Output io.Writer
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: toSlogLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	defaultLogger = slog.New(handler)
}

// Default returns the global logger, or slog's default if Init was never
// called.
func Default() *slog.Logger {
	if defaultLogger != nil {
		return defaultLogger
	}
	return slog.Default()
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug message
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }

// Info logs an info message
func Info(msg string, args ...any) { Default().Info(msg, args...) }

// Warn logs a warning message
func Warn(msg string, args ...any) { Default().Warn(msg, args...) }

// Error logs an error message
func Error(msg string, args ...any) { Default().Error(msg, args...) }

// LogDiagnostic logs a diagnostic found in file. Diagnostics at or below
// the threshold severity are logged as errors, the rest as warnings or, for
// stylistic ones, at info level.
func LogDiagnostic(file string, d *diag.Diagnostic, threshold diag.Severity) {
	level := slog.LevelWarn
	switch {
	case d.Severity <= threshold:
		level = slog.LevelError
	case d.Severity == diag.SeverityStyle:
		level = slog.LevelInfo
	}
	Default().Log(context.Background(), level, d.Message,
		"file", file,
		"line", d.Line,
		"column", d.Column,
		"code", int(d.Code),
		"severity", int(d.Severity))
}
