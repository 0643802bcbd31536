package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogFormat represents the log output format
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// Logger interface defines the logging contract
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	SetLevel(level LogLevel)
	SetOutput(w io.Writer)
	SetFormat(format LogFormat)

	WithField(key string, value interface{}) Logger
}

type standardLogger struct {
	mu     sync.Mutex
	level  LogLevel
	out    io.Writer
	format LogFormat
	fields map[string]interface{}
}

// NewLogger creates a logger writing to stderr at Info level
func NewLogger() Logger {
	return &standardLogger{
		level:  LogLevelInfo,
		out:    os.Stderr,
		fields: map[string]interface{}{},
	}
}

func (l *standardLogger) SetLevel(level LogLevel) { l.mu.Lock(); l.level = level; l.mu.Unlock() }
func (l *standardLogger) SetOutput(w io.Writer)   { l.mu.Lock(); l.out = w; l.mu.Unlock() }
func (l *standardLogger) SetFormat(f LogFormat)   { l.mu.Lock(); l.format = f; l.mu.Unlock() }

func (l *standardLogger) WithField(key string, value interface{}) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	return &standardLogger{
		level:  l.level,
		out:    l.out,
		format: l.format,
		fields: fields,
	}
}

func (l *standardLogger) Debug(msg string, args ...interface{}) { l.log(LogLevelDebug, msg, args...) }
func (l *standardLogger) Info(msg string, args ...interface{})  { l.log(LogLevelInfo, msg, args...) }
func (l *standardLogger) Warn(msg string, args ...interface{})  { l.log(LogLevelWarn, msg, args...) }
func (l *standardLogger) Error(msg string, args ...interface{}) { l.log(LogLevelError, msg, args...) }

func (l *standardLogger) log(level LogLevel, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	now := time.Now().Format(time.RFC3339)

	if l.format == LogFormatJSON {
		entry := map[string]interface{}{
			"time":    now,
			"level":   level.String(),
			"message": msg,
		}
		for k, v := range l.fields {
			entry[k] = v
		}
		data, err := json.Marshal(entry)
		if err == nil {
			fmt.Fprintln(l.out, string(data))
		}
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] %s", now, level.String(), msg)
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, l.fields[k])
		}
	}
	fmt.Fprintln(l.out, sb.String())
}
