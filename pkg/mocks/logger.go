package mocks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/user/pagecast/pkg/ports"
)

// LogEntry is one message captured by Logger.
type LogEntry struct {
	Level     ports.LogLevel
	Component string
	Message   string
}

// Logger is a ports.Logger that records formatted messages.
// Loggers derived with WithComponent share the same record.
type Logger struct {
	component string
	store     *logStore
}

type logStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogger creates a recording logger.
func NewLogger() *Logger {
	return &Logger{store: &logStore{}}
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.record(ports.LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.record(ports.LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.record(ports.LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.record(ports.LevelError, msg, args) }

func (l *Logger) WithComponent(component string) ports.Logger {
	return &Logger{component: component, store: l.store}
}

func (l *Logger) record(level ports.LogLevel, msg string, args []interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.store.entries = append(l.store.entries, LogEntry{
		Level:     level,
		Component: l.component,
		Message:   msg,
	})
}

// Entries returns every recorded message.
func (l *Logger) Entries() []LogEntry {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	out := make([]LogEntry, len(l.store.entries))
	copy(out, l.store.entries)
	return out
}

// Count returns how many messages at level contain substr.
func (l *Logger) Count(level ports.LogLevel, substr string) int {
	n := 0
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			n++
		}
	}
	return n
}

var _ ports.Logger = (*Logger)(nil)
