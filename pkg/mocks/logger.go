package mocks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/user/recstream/pkg/ports"
)

// LogEntry is a message captured by Logger.
type LogEntry struct {
	Level     ports.LogLevel
	Component string
	Message   string // formatted, untranslated
}

// Logger records log messages for assertions. Loggers derived through
// WithComponent share the parent's entries.
type Logger struct {
	component string
	sink      *logSink
}

type logSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogger creates an empty recording logger.
func NewLogger() *Logger {
	return &Logger{sink: &logSink{}}
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.add(ports.LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.add(ports.LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.add(ports.LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.add(ports.LevelError, msg, args) }

func (l *Logger) WithComponent(component string) ports.Logger {
	return &Logger{component: component, sink: l.sink}
}

// Entries returns a copy of everything logged so far.
func (l *Logger) Entries() []LogEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return append([]LogEntry(nil), l.sink.entries...)
}

// Count returns the number of entries at level whose message contains substr.
func (l *Logger) Count(level ports.LogLevel, substr string) int {
	n := 0
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			n++
		}
	}
	return n
}

func (l *Logger) add(level ports.LogLevel, msg string, args []interface{}) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = append(l.sink.entries, LogEntry{
		Level:     level,
		Component: l.component,
		Message:   fmt.Sprintf(msg, args...),
	})
}

var _ ports.Logger = (*Logger)(nil)
