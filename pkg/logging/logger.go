package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		writer: writer,
		level:  level,
		fields: make([]Field, 0),
		mu:     &sync.Mutex{},
	}
}

// NewStderrLogger creates a logger writing to stderr. LOG_LEVEL, when set,
// takes precedence over level.
func NewStderrLogger(level Level) *JSONLogger {
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = ParseLevel(env)
	}
	return NewJSONLogger(os.Stderr, level)
}

// OpenFileLogger appends JSON log lines to path, creating parent
// directories as needed. The caller closes the returned file.
func OpenFileLogger(path string, level Level) (*JSONLogger, io.Closer, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewJSONLogger(f, level), f, nil
}

func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	data, err := json.Marshal(buildEntry(level, msg, l.fields, fields))
	if err != nil {
		fmt.Fprintf(l.writer, "[ERROR] Failed to marshal log entry: %v\n", err)
		return
	}

	l.writer.Write(append(data, '\n'))
}

// buildEntry merges preset and call-site fields; call-site keys win.
func buildEntry(level Level, msg string, preset, fields []Field) LogEntry {
	entry := LogEntry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if len(preset)+len(fields) == 0 {
		return entry
	}
	entry.Fields = make(map[string]any, len(preset)+len(fields))
	for _, f := range preset {
		entry.Fields[f.Key] = f.Value
	}
	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}
	return entry
}

// childFields returns a fresh slice so siblings created by With never share
// a backing array.
func childFields(preset, extra []Field) []Field {
	out := make([]Field, 0, len(preset)+len(extra))
	out = append(out, preset...)
	return append(out, extra...)
}

// Debug logs a debug-level message
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an info-level message
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning-level message
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error-level message
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With creates a child logger with the given fields pre-set
func (l *JSONLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &JSONLogger{
		writer: l.writer,
		level:  l.level,
		fields: childFields(l.fields, fields),
		mu:     l.mu,
	}
}

// SetLevel sets the minimum log level
func (l *JSONLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *JSONLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}
