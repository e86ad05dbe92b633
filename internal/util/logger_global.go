package util

import (
	"context"
	"sync"
)

var (
	globalLogger LoggerInterface = nopLogger{}
	loggerMu     sync.RWMutex
)

// SetupLogger replaces the global logger. The previous one is closed.
func SetupLogger(cfg LoggerConfig) error {
	l, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// SetLogger installs l as the global logger; nil discards logs.
func SetLogger(l LoggerInterface) {
	if l == nil {
		l = nopLogger{}
	}
	loggerMu.Lock()
	prev := globalLogger
	globalLogger = l
	loggerMu.Unlock()
	if c, ok := prev.(interface{ Close() error }); ok && prev != l {
		c.Close()
	}
}

// Log returns the global logger
func Log() LoggerInterface {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

func LogInfof(format string, args ...interface{}) { Log().Infof(format, args...) }

func LogDebugf(format string, args ...interface{}) { Log().Debugf(format, args...) }

func LogWarnf(format string, args ...interface{}) { Log().Warnf(format, args...) }

func LogError(msg string) { Log().Error(msg) }

func LogErrorf(format string, args ...interface{}) { Log().Errorf(format, args...) }

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)                        {}
func (nopLogger) Debugf(string, ...interface{})                 {}
func (nopLogger) Info(string, ...Field)                         {}
func (nopLogger) Infof(string, ...interface{})                  {}
func (nopLogger) Warn(string, ...Field)                         {}
func (nopLogger) Warnf(string, ...interface{})                  {}
func (nopLogger) Error(string, ...Field)                        {}
func (nopLogger) Errorf(string, ...interface{})                 {}
func (n nopLogger) With(...Field) LoggerInterface               { return n }
func (n nopLogger) WithComponent(string) LoggerInterface        { return n }
func (n nopLogger) WithContext(context.Context) LoggerInterface { return n }
