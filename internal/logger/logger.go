// Package logger is a small levelled logger: timestamp, level and caller on
// every line, written to stdout or a file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = [...]string{
	Debug: "DEBUG",
	Info:  "INFO ",
	Warn:  "WARN ",
	Error: "ERROR",
}

var levelColors = [...]string{
	Debug: "\033[36m",
	Info:  "\033[32m",
	Warn:  "\033[33m",
	Error: "\033[31m",
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

func (l Level) String() string {
	if l < Debug || l > Error {
		return "UNKNOWN"
	}
	return strings.TrimSpace(levelNames[l])
}

type Logger struct {
	level  Level
	out    *log.Logger
	file   *os.File
	colors bool
	now    func() time.Time
}

// New writes to w. Colours are used when w is a terminal.
func New(w io.Writer, level Level) *Logger {
	l := &Logger{level: level, out: log.New(w, "", 0), now: time.Now}
	if f, ok := w.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			l.colors = true
		}
	}
	return l
}

// Open returns a stdout logger when path is empty, otherwise one appending to
// path. The directory is created if needed.
func Open(level Level, path string) (*Logger, error) {
	if path == "" {
		return New(os.Stdout, level), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(f, level)
	l.file = f
	return l, nil
}

// Discard drops everything.
func Discard() *Logger {
	return New(io.Discard, Error+1)
}

func (l *Logger) SetLevel(level Level) { l.level = level }

func (l *Logger) Enabled(level Level) bool { return level >= l.level }

func (l *Logger) logf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file, line = "unknown", 0
	}
	prefix := fmt.Sprintf("%s [%s] %s:%d:", l.now().Format("2006/01/02 15:04:05"), levelNames[level], filepath.Base(file), line)
	if l.colors {
		prefix = levelColors[level] + prefix + "\033[0m"
	}
	l.out.Println(prefix, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(Debug, format, args...) }

func (l *Logger) Infof(format string, args ...any) { l.logf(Info, format, args...) }

func (l *Logger) Warnf(format string, args ...any) { l.logf(Warn, format, args...) }

func (l *Logger) Errorf(format string, args ...any) { l.logf(Error, format, args...) }

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
