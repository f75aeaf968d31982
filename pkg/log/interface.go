package log

import (
	"time"
)

// Logger defines the interface for structured logging operations.
// It provides methods for logging at different levels with structured fields,
// and supports creating child loggers with additional context.
//
// Example usage:
//
//	logger.Info("user registered", String("username", "alice"))
//	child := logger.With(String("request_id", "abc-123"))
//	child.Error("store write failed", Error(err))
type Logger interface {
	// Debug logs a debug message with optional structured fields.
	Debug(msg string, fields ...Field)

	// Info logs an informational message with optional structured fields.
	Info(msg string, fields ...Field)

	// Warn logs a warning message with optional structured fields.
	Warn(msg string, fields ...Field)

	// Error logs an error message with optional structured fields.
	Error(msg string, fields ...Field)

	// Fatal logs a fatal message with optional structured fields and exits
	// the program.
	Fatal(msg string, fields ...Field)

	// With creates a new logger instance with additional structured fields.
	// The returned logger includes the provided fields in all subsequent
	// log entries.
	With(fields ...Field) Logger
}

// Level represents the logging level, determining which messages should be
// logged. Lower numeric values represent more verbose logging levels.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the logging level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name into a Level; unknown names map to
// InfoLevel.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return DebugLevel
	case "info", "INFO":
		return InfoLevel
	case "warn", "WARN", "warning":
		return WarnLevel
	case "error", "ERROR":
		return ErrorLevel
	case "fatal", "FATAL":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Field represents a structured logging field with a key-value pair.
type Field struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// String creates a string field for structured logging.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field for structured logging.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field for structured logging.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field for structured logging.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Time creates a time field for structured logging.
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field for structured logging.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Error creates an error field for structured logging.
// This is a convenience function that uses "error" as the key.
func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any creates a field with any value type for structured logging.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
