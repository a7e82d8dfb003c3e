package logger

import "github.com/user/recstream/pkg/ports"

// NoopLogger discards all messages. Used for --log-level quiet.
type NoopLogger struct{}

// NewNoop creates a new no-op logger.
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(msg string, args ...interface{}) {}
func (l *NoopLogger) Info(msg string, args ...interface{})  {}
func (l *NoopLogger) Warn(msg string, args ...interface{})  {}
func (l *NoopLogger) Error(msg string, args ...interface{}) {}

// WithComponent returns the same no-op logger.
func (l *NoopLogger) WithComponent(component string) ports.Logger {
	return l
}

// New returns a ConsoleLogger for level, or a NoopLogger for LevelQuiet.
func New(level ports.LogLevel) ports.Logger {
	if level >= ports.LevelQuiet {
		return NewNoop()
	}
	return NewConsole(level)
}
