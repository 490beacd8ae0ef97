package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

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
	case LevelFatal:
		return "FATAL"
	}
	return "INFO"
}

func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// Logger writes one JSON object per line with variadic key/value fields.
type Logger struct {
	output   io.Writer
	minLevel Level
	fields   map[string]interface{}
}

type logEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func NewLogger() *Logger {
	return &Logger{output: os.Stdout, minLevel: LevelInfo}
}

func NewLoggerWithLevel(level Level) *Logger {
	return &Logger{output: os.Stdout, minLevel: level}
}

func NewLoggerWithOutput(w io.Writer, level Level) *Logger {
	return &Logger{output: w, minLevel: level}
}

// WithField returns a logger that includes the given key/value in every entry.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{output: l.output, minLevel: l.minLevel, fields: fields}
}

func (l *Logger) log(level Level, msg string, kv ...interface{}) {
	if level < l.minLevel {
		return
	}

	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   msg,
	}

	if len(l.fields) > 0 || len(kv) >= 2 {
		fieldMap := make(map[string]interface{})
		for k, v := range l.fields {
			fieldMap[k] = v
		}
		for i := 0; i+1 < len(kv); i += 2 {
			if key, ok := kv[i].(string); ok {
				fieldMap[key] = kv[i+1]
			}
		}
		entry.Fields = fieldMap
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: marshal failed: %v\n", err)
		return
	}

	fmt.Fprintln(l.output, string(data))
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.log(LevelDebug, msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.log(LevelInfo, msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.log(LevelWarn, msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.log(LevelError, msg, kv...) }

func (l *Logger) Fatal(msg string, kv ...interface{}) {
	l.log(LevelFatal, msg, kv...)
	os.Exit(1)
}
