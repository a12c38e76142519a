// Package logger provides structured JSON logging for the twick-events
// service. Levels below the configured minimum are discarded; every
// entry carries a UTC timestamp and optional structured fields.
//
// Example:
//
//	logger.Info("scrape complete", logger.Fields{
//	    "events": 12,
//	    "attempts": 1,
//	})
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Fields represents structured log fields.
type Fields map[string]interface{}

// LogEntry is a single structured log line.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Logger writes structured JSON log entries.
type Logger struct {
	minLevel Level
	output   *os.File
}

var defaultLogger = New(LevelInfo, os.Stdout)

// New creates a logger with the given minimum level and output.
func New(level Level, output *os.File) *Logger {
	if _, ok := levelRank[level]; !ok {
		level = LevelInfo
	}
	return &Logger{minLevel: level, output: output}
}

// SetDefault replaces the package-level logger used by the
// convenience functions.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// ParseLevel maps a config string to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return Level(s)
	}
	return LevelInfo
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}
	fmt.Fprintln(l.output, string(data))
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(message string, fields Fields) { l.log(LevelDebug, message, fields, nil) }

// Info logs at INFO level.
func (l *Logger) Info(message string, fields Fields) { l.log(LevelInfo, message, fields, nil) }

// Warn logs at WARN level.
func (l *Logger) Warn(message string, fields Fields) { l.log(LevelWarn, message, fields, nil) }

// Error logs at ERROR level with an optional error.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Debug logs to the default logger.
func Debug(message string, fields Fields) { defaultLogger.Debug(message, fields) }

// Info logs to the default logger.
func Info(message string, fields Fields) { defaultLogger.Info(message, fields) }

// Warn logs to the default logger.
func Warn(message string, fields Fields) { defaultLogger.Warn(message, fields) }

// Error logs to the default logger.
func Error(message string, fields Fields, err error) { defaultLogger.Error(message, fields, err) }
