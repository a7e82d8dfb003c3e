// Package logger provides the recorder's ports.Logger implementations.
//
// Messages are format keys looked up through go-l10n, so the same call site
// logs English or Japanese depending on the user's locale.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/user/recstream/pkg/ports"
)

const (
	ansiReset  = "\033[0m"
	ansiGray   = "\033[90m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiCyan   = "\033[36m"
)

// levelColors maps levels to the ANSI color of the whole line. Info is
// printed plain.
var levelColors = map[ports.LogLevel]string{
	ports.LevelDebug: ansiGray,
	ports.LevelWarn:  ansiYellow,
	ports.LevelError: ansiRed,
}

// stream is an output shared by a logger and every logger derived from it.
// The recorder worker and the CLI write concurrently, so lines are
// serialized.
type stream struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *stream) line(text string) {
	s.mu.Lock()
	fmt.Fprintln(s.w, text)
	s.mu.Unlock()
}

// ConsoleLogger writes Debug and Info lines to one stream and Warn and
// Error lines to another, optionally colored.
type ConsoleLogger struct {
	min       ports.LogLevel
	component string
	color     bool
	info      *stream
	problems  *stream
}

// NewConsole logs to stdout and stderr, coloring lines when stdout is a
// terminal.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	fd := os.Stdout.Fd()
	l := NewWriters(level, os.Stdout, os.Stderr)
	l.color = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return l
}

// NewWriters logs uncolored lines to out (Debug, Info) and errOut (Warn,
// Error).
func NewWriters(level ports.LogLevel, out, errOut io.Writer) *ConsoleLogger {
	return &ConsoleLogger{
		min:      level,
		info:     &stream{w: out},
		problems: &stream{w: errOut},
	}
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) { l.emit(ports.LevelDebug, msg, args) }
func (l *ConsoleLogger) Info(msg string, args ...interface{})  { l.emit(ports.LevelInfo, msg, args) }
func (l *ConsoleLogger) Warn(msg string, args ...interface{})  { l.emit(ports.LevelWarn, msg, args) }
func (l *ConsoleLogger) Error(msg string, args ...interface{}) { l.emit(ports.LevelError, msg, args) }

// WithComponent derives a logger that prefixes lines with component. A
// logger that already has a component nests the new one under it, as in
// "recorder/scheduler".
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	child := *l
	if l.component != "" && component != "" {
		child.component = l.component + "/" + component
	} else if component != "" {
		child.component = component
	}
	return &child
}

func (l *ConsoleLogger) emit(level ports.LogLevel, msg string, args []interface{}) {
	if level < l.min {
		return
	}
	text := l.format(level, l10n.F(msg, args...))
	if level >= ports.LevelWarn {
		l.problems.line(text)
		return
	}
	l.info.line(text)
}

func (l *ConsoleLogger) format(level ports.LogLevel, text string) string {
	if l.component != "" {
		prefix := "[" + l.component + "]"
		if l.color {
			prefix = ansiCyan + prefix + ansiReset
		}
		text = prefix + " " + text
	}
	if c, ok := levelColors[level]; ok && l.color {
		text = c + text + ansiReset
	}
	return text
}

var _ ports.Logger = (*ConsoleLogger)(nil)
