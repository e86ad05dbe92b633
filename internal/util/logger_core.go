package util

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// LogFormat represents the output format
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Output represents a log output destination
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Component string                 `json:"component,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LoggerConfig selects level, destinations and format
type LoggerConfig struct {
	Level string
	// File is appended to; its directory is created when missing
	File string
	// Console mirrors entries to stderr
	Console bool
	Format  LogFormat
}

// LoggerInterface defines the public interface for logging
type LoggerInterface interface {
	Debug(msg string, fields ...Field)
	Debugf(format string, args ...interface{})
	Info(msg string, fields ...Field)
	Infof(format string, args ...interface{})
	Warn(msg string, fields ...Field)
	Warnf(format string, args ...interface{})
	Error(msg string, fields ...Field)
	Errorf(format string, args ...interface{})
	With(fields ...Field) LoggerInterface
	WithComponent(component string) LoggerInterface
	WithContext(ctx context.Context) LoggerInterface
}

// sink is shared by a logger and everything derived from it
type sink struct {
	mu      sync.RWMutex
	level   LogLevel
	outputs []Output
}

// Logger provides structured logging functionality
type Logger struct {
	sink      *sink
	component string
	fields    map[string]interface{}
	now       func() time.Time
}

// NewLogger creates a logger writing to the configured outputs. With neither
// a file nor console output, entries are discarded.
func NewLogger(cfg LoggerConfig) (*Logger, error) {
	format := cfg.Format
	if format != FormatJSON {
		format = FormatText
	}
	l := &Logger{
		sink:   &sink{level: ParseLogLevel(cfg.Level)},
		fields: map[string]interface{}{},
		now:    time.Now,
	}
	if cfg.Console {
		l.AddOutput(NewConsoleOutput(os.Stderr, format))
	}
	if cfg.File != "" {
		out, err := NewFileOutput(cfg.File, format)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		l.AddOutput(out)
	}
	return l, nil
}

// NewWriterLogger logs to w only, mostly for tests
func NewWriterLogger(w io.Writer, level string, format LogFormat) *Logger {
	l := &Logger{
		sink:   &sink{level: ParseLogLevel(level)},
		fields: map[string]interface{}{},
		now:    time.Now,
	}
	l.AddOutput(NewConsoleOutput(w, format))
	return l
}

// ParseLogLevel parses a log level string, defaulting to info
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (level LogLevel) String() string {
	switch level {
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

func (l *Logger) log(level LogLevel, msg string, fields ...Field) {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	if level < l.sink.level {
		return
	}

	entry := LogEntry{
		Timestamp: l.now(),
		Level:     level.String(),
		Component: l.component,
		Message:   msg,
	}
	if len(l.fields)+len(fields) > 0 {
		entry.Fields = make(map[string]interface{}, len(l.fields)+len(fields))
		for k, v := range l.fields {
			entry.Fields[k] = v
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	for _, output := range l.sink.outputs {
		if err := output.Write(entry); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
		}
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields...) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(msg string, fields ...Field) { l.log(LevelInfo, msg, fields...) }

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(msg string, fields ...Field) { l.log(LevelWarn, msg, fields...) }

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields...) }

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

// With returns a logger sharing the outputs with additional fields
func (l *Logger) With(fields ...Field) LoggerInterface {
	next := l.derive()
	for _, f := range fields {
		next.fields[f.Key] = f.Value
	}
	return next
}

// WithComponent returns a logger tagging entries with component
func (l *Logger) WithComponent(component string) LoggerInterface {
	next := l.derive()
	next.component = component
	return next
}

// WithContext adds the request id carried by ctx, if any
func (l *Logger) WithContext(ctx context.Context) LoggerInterface {
	if id := RequestIDFromContext(ctx); id != "" {
		return l.With(Field{Key: "request_id", Value: id})
	}
	return l
}

func (l *Logger) derive() *Logger {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &Logger{sink: l.sink, component: l.component, fields: fields, now: l.now}
}

// SetLevel sets the logging level of this logger and all derived ones
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// AddOutput adds a new output destination
func (l *Logger) AddOutput(output Output) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.outputs = append(l.sink.outputs, output)
}

// Close closes every output
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	var firstErr error
	for _, o := range l.sink.outputs {
		if err := o.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.sink.outputs = nil
	return firstErr
}

type requestIDKey struct{}

// ContextWithRequestID attaches a request id picked up by WithContext
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by ContextWithRequestID, or ""
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
