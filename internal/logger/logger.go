// Package logger is the leveled logger shared by the qubit commands. The
// calculator library itself never logs.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level is a logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelNone disables logging.
	LevelNone
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
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// LookupLevel returns the level named by s, ignoring case.
func LookupLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "none", "off":
		return LevelNone, true
	}
	return LevelInfo, false
}

// ParseLevel is like LookupLevel but gives LevelInfo for unknown names.
func ParseLevel(s string) Level {
	l, _ := LookupLevel(s)
	return l
}

// sink is the destination shared by a logger and its prefixed children.
type sink struct {
	mu    sync.Mutex
	level Level
	out   *log.Logger
	file  *os.File
}

// Logger writes leveled, timestamped lines.
type Logger struct {
	s      *sink
	prefix string
}

// New creates a logger that appends to the file at path. An empty path or
// LevelNone gives a logger that discards everything.
func New(level Level, path, prefix string) (*Logger, error) {
	if path == "" || level == LevelNone {
		return NewWriter(level, io.Discard, prefix), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	lg := NewWriter(level, f, prefix)
	lg.s.file = f
	return lg, nil
}

// NewWriter creates a logger that writes to w.
func NewWriter(level Level, w io.Writer, prefix string) *Logger {
	return &Logger{
		s:      &sink{level: level, out: log.New(w, "", 0)},
		prefix: prefix,
	}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return NewWriter(LevelNone, io.Discard, "")
}

// WithPrefix returns a logger writing to the same place with prefix added to
// its own.
func (l *Logger) WithPrefix(prefix string) *Logger {
	p := prefix
	if l.prefix != "" {
		p = l.prefix + ":" + prefix
	}
	return &Logger{s: l.s, prefix: p}
}

// SetLevel changes the level of l and every logger sharing its output.
func (l *Logger) SetLevel(level Level) {
	l.s.mu.Lock()
	l.s.level = level
	l.s.mu.Unlock()
}

func (l *Logger) Level() Level {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.level
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if level < l.s.level || l.s.level == LevelNone {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		l.s.out.Printf("%s [%s] [%s] %s", ts, level, l.prefix, msg)
		return
	}
	l.s.out.Printf("%s [%s] %s", ts, level, msg)
}

func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

// Close closes the log file, if any. Prefixed children share the file, so
// only the root logger should be closed.
func (l *Logger) Close() error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if l.s.file == nil {
		return nil
	}
	err := l.s.file.Close()
	l.s.file = nil
	l.s.out.SetOutput(io.Discard)
	return err
}
