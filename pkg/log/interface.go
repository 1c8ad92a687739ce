// Package log provides the structured logging interface used across moldesc.
//
// The interface is slog-compatible so that backends can be swapped without touching
// call sites. The default backend is zerolog (see ZerologProvider); tests use
// TestLogger to capture and inspect records.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("descriptor").With(
//	    log.ComponentKey, "engine",
//	)
//	logger.Info("descriptor table computed",
//	    log.OperationKey, log.OperationCompute,
//	    log.MoleculesKey, 1024,
//	    log.FeaturesKey, 112,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. An error passed in a key position is
// logged as the record's error and, for cockroachdb errors, with its stack trace.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(msg string, fields ...any)

	// Info logs an info-level message.
	//
	// Example:
	//   logger.Info("LassoCV selected alpha",
	//       log.AlphaKey, 0.0123,
	//       log.NonZeroKey, 9,
	//   )
	Info(msg string, fields ...any)

	// Warn logs a warning-level message.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error, stack
	// trace information is attached when available.
	//
	// Example:
	//   logger.Error("evaluation failed", err, log.ComponentsKey, 16)
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
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

// LoggerProvider creates and configures loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for all loggers created by this provider.
	SetLevel(level Level)
}
