// Package log provides the structured logger shared by the loader and the
// CLI front-end, backed by log/slog. Diagnostics go to stderr; stdout stays
// reserved for command output.
package log

import (
	"io"
	"log/slog"
	"sync"

	"github.com/batteryshark/agentkit/internal/errors"
)

// Logger provides structured logging with slog
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New creates a new Logger with the given configuration
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	switch config.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(config.Output.Writer(), opts)
	default:
		handler = slog.NewTextHandler(config.Output.Writer(), opts)
	}

	return &Logger{
		slog:   slog.New(handler),
		config: config,
	}
}

// Discard creates a logger that drops everything. Used for the loader's
// silent mode: diagnostics are suppressed but load failures stay available
// on the returned result.
func Discard() *Logger {
	return New(Config{Level: LevelError, Output: NewOutput(io.Discard)})
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// SetDefault installs the process-wide logger; the CLI front-end builds it
// from the persistent --log-level/--log-format/--verbose flags.
func SetDefault(logger *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// Default returns the process-wide logger, initializing it from
// DefaultConfig on first use.
func Default() *Logger {
	defaultMu.RLock()
	logger := defaultLogger
	defaultMu.RUnlock()
	if logger != nil {
		return logger
	}

	logger = New(DefaultConfig())
	SetDefault(logger)
	return logger
}

// With returns a new Logger with the given attributes added to all log entries
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		config: l.config,
	}
}

// WithError adds error details to the logger.
// If the error is an AgentKitError, it adds error_code as well.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	if kitErr, ok := err.(*errors.AgentKitError); ok {
		args := []any{
			"error", kitErr.Message,
			"error_code", string(kitErr.Code),
		}
		if kitErr.Cause != nil {
			args = append(args, "cause", kitErr.Cause.Error())
		}
		return l.With(args...)
	}

	return l.With("error", err.Error())
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}
