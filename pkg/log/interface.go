// Package log provides the structured logging interface used across eslgo.
//
// The interface is slog-compatible so that the backend can be swapped. The
// default backend is zerolog (see GetLogger); tests use TestLogger, which
// captures JSON lines in memory.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("discriminant").With(
//	    log.ModelNameKey, "QDA",
//	)
//	logger.Info("Training completed",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 528,
//	    log.FeaturesKey, 10,
//	)
package log

import (
	"context"
)

// Logger is a structured logger with key-value fields.
type Logger interface {
	// Debug logs diagnostic detail, usually disabled outside development.
	Debug(msg string, fields ...any)

	// Info logs normal operational progress.
	Info(msg string, fields ...any)

	// Warn logs a condition that does not stop the computation.
	Warn(msg string, fields ...any)

	// Error logs a failure. An error passed as the first field is recorded
	// under the "error" key.
	//
	//	logger.Error("bootstrap refit failed", err, log.IterationKey, 17)
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level; values match slog.Level.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates loggers. It is the injection point for tests.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers from this provider.
	SetLevel(level Level)
}
