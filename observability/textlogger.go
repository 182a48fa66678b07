package observability

import (
	"fmt"
	"io"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
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
	default:
		return "UNKNOWN"
	}
}

// textLogger writes "LEVEL msg key=value ..." lines to a single writer.
// Lines are emitted atomically under a mutex shared by With-derived loggers.
type textLogger struct {
	mu     *sync.Mutex
	w      io.Writer
	min    Level
	fields []Field
}

// NewTextLogger returns a Logger that writes human-readable lines to w,
// dropping entries below min.
func NewTextLogger(w io.Writer, min Level) Logger {
	return &textLogger{mu: &sync.Mutex{}, w: w, min: min}
}

func (l *textLogger) log(lvl Level, msg string, fields []Field) {
	if lvl < l.min {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %s", lvl, msg)
	for _, f := range l.fields {
		fmt.Fprintf(l.w, " %s=%v", f.Key(), f.Value())
	}
	for _, f := range fields {
		fmt.Fprintf(l.w, " %s=%v", f.Key(), f.Value())
	}
	fmt.Fprintln(l.w)
}

func (l *textLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *textLogger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *textLogger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *textLogger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *textLogger) With(fields ...Field) Logger {
	combined := make([]Field, 0, len(l.fields)+len(fields))
	combined = append(combined, l.fields...)
	combined = append(combined, fields...)
	return &textLogger{mu: l.mu, w: l.w, min: l.min, fields: combined}
}
