// Package activity is the operator-facing log panel: an append-only list of
// timestamped messages with a level marker.
package activity

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Marker is the icon shown in front of entries of level l.
func (l Level) Marker() string {
	switch l {
	case Error:
		return "❌"
	case Success:
		return "✅"
	case Warning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

type Entry struct {
	Time    time.Time `json:"time"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
}

func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s %s", e.Time.Format("15:04:05"), e.Level.Marker(), e.Message)
}

type Log struct {
	mu      sync.Mutex
	entries []Entry
	out     io.Writer
	now     func() time.Time
}

// New returns an empty log. When out is non-nil every entry is also
// written to it as it is added.
func New(out io.Writer) *Log {
	return &Log{out: out, now: time.Now}
}

func (l *Log) Add(level Level, format string, v ...interface{}) Entry {
	entry := Entry{
		Time:    l.now(),
		Level:   level,
		Message: fmt.Sprintf(format, v...),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if l.out != nil {
		fmt.Fprintln(l.out, entry.String())
	}
	return entry
}

func (l *Log) Info(format string, v ...interface{})    { l.Add(Info, format, v...) }
func (l *Log) Success(format string, v ...interface{}) { l.Add(Success, format, v...) }
func (l *Log) Warning(format string, v ...interface{}) { l.Add(Warning, format, v...) }
func (l *Log) Error(format string, v ...interface{})   { l.Add(Error, format, v...) }

// Entries returns a copy of the log, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Since returns the entries after the first n, for incremental readers.
func (l *Log) Since(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n >= len(l.entries) {
		return []Entry{}
	}
	return append([]Entry(nil), l.entries[n:]...)
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
