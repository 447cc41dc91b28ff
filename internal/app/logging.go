package app

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogLevel is a message severity. Higher is more severe.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if l < LogLevelDebug || l > LogLevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel parses a level name, ignoring case. The empty string is
// info and "warning" is accepted for warn.
func ParseLogLevel(s string) (LogLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch name {
	case "":
		return LogLevelInfo, nil
	case "WARNING":
		return LogLevelWarn, nil
	}
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i), nil
		}
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

// DefaultLogPrefix tags every line the run logger writes.
const DefaultLogPrefix = "glyphgrid"

// LoggerConfig configures NewLogger.
type LoggerConfig struct {
	Level LogLevel
	// Output defaults to os.Stderr.
	Output io.Writer
	Prefix string
}

// sink is the destination shared by a logger and everything derived
// from it.
type sink struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

type field struct {
	key   string
	value any
}

// Logger writes leveled lines with key=value fields. Derived loggers share
// their parent's sink; a Logger is safe for concurrent use.
type Logger struct {
	out    *sink
	level  LogLevel
	off    bool
	fields []field // sorted by key
}

// NewLogger returns a logger writing to cfg.Output.
func NewLogger(cfg LoggerConfig) *Logger {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	return &Logger{out: &sink{w: w, prefix: cfg.Prefix}, level: cfg.Level}
}

// NewNullLogger returns a logger that writes nothing.
func NewNullLogger() *Logger {
	return &Logger{out: &sink{w: io.Discard}, off: true}
}

// ForRun tags the logger with a fresh run id.
func (l *Logger) ForRun() *Logger {
	return l.WithField("run", uuid.NewString())
}

// WithComponent sets the component field.
func (l *Logger) WithComponent(name string) *Logger {
	return l.WithField("component", name)
}

// WithField returns a logger with key set to value. The receiver is not
// modified.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields is WithField for several keys.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := make([]field, len(l.fields), len(l.fields)+len(fields))
	copy(merged, l.fields)
	for k, v := range fields {
		i := sort.Search(len(merged), func(i int) bool { return merged[i].key >= k })
		if i < len(merged) && merged[i].key == k {
			merged[i].value = v
			continue
		}
		merged = append(merged, field{})
		copy(merged[i+1:], merged[i:])
		merged[i] = field{k, v}
	}
	child := *l
	child.fields = merged
	return &child
}

// Field returns the value of key.
func (l *Logger) Field(key string) (any, bool) {
	for _, f := range l.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// Enabled reports whether a message at level would be written.
func (l *Logger) Enabled(level LogLevel) bool {
	return !l.off && level >= l.level
}

func (l *Logger) Debug(format string, args ...any) { l.write(LogLevelDebug, format, args) }

func (l *Logger) Info(format string, args ...any) { l.write(LogLevelInfo, format, args) }

func (l *Logger) Warn(format string, args ...any) { l.write(LogLevelWarn, format, args) }

func (l *Logger) Error(format string, args ...any) { l.write(LogLevelError, format, args) }

// write formats one line:
//
//	2006-01-02T15:04:05.000 INFO  prefix: message key=value key=value
func (l *Logger) write(level LogLevel, format string, args []any) {
	if !l.Enabled(level) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s ", time.Now().Format("2006-01-02T15:04:05.000"), level)
	if l.out.prefix != "" {
		b.WriteString(l.out.prefix)
		b.WriteString(": ")
	}
	b.WriteString(msg)
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%v", f.key, f.value)
	}
	b.WriteByte('\n')

	l.out.mu.Lock()
	_, _ = io.WriteString(l.out.w, b.String())
	l.out.mu.Unlock()
}
