package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// LogRecord is one captured log call with its attributes flattened.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

func (r LogRecord) String() string {
	return fmt.Sprintf("[%s] %s %v", r.Level, r.Message, r.Attrs)
}

type logSink struct {
	mu      sync.Mutex
	records []LogRecord
}

// BufferedSlogHandler is a slog.Handler that records every call at every
// level. Loggers derived with With share the sink and carry their own
// attributes; groups are flattened.
type BufferedSlogHandler struct {
	sink  *logSink
	attrs []slog.Attr
	t     *testing.T
}

// NewBufferedSlogHandler creates a handler that also echoes records to
// t.Log when t is not nil.
func NewBufferedSlogHandler(t *testing.T) *BufferedSlogHandler {
	return &BufferedSlogHandler{sink: &logSink{}, t: t}
}

// NewTestLogger returns a logger backed by a fresh BufferedSlogHandler.
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	h := NewBufferedSlogHandler(t)
	return slog.New(h), h
}

func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	rec := LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]any, len(h.attrs)+r.NumAttrs()),
	}
	for _, a := range h.attrs {
		rec.Attrs[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Resolve().Any()
		return true
	})

	h.sink.mu.Lock()
	h.sink.records = append(h.sink.records, rec)
	h.sink.mu.Unlock()

	if h.t != nil {
		h.t.Log(rec.String())
	}
	return nil
}

func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BufferedSlogHandler{
		sink:  h.sink,
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
		t:     h.t,
	}
}

func (h *BufferedSlogHandler) WithGroup(string) slog.Handler { return h }

// filter returns a copy of the records matching keep.
func (h *BufferedSlogHandler) filter(keep func(LogRecord) bool) []LogRecord {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()

	var out []LogRecord
	for _, r := range h.sink.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// GetRecords returns every captured record.
func (h *BufferedSlogHandler) GetRecords() []LogRecord {
	return h.filter(func(LogRecord) bool { return true })
}

// GetRecordsByLevel returns the records logged at exactly level.
func (h *BufferedSlogHandler) GetRecordsByLevel(level slog.Level) []LogRecord {
	return h.filter(func(r LogRecord) bool { return r.Level == level })
}

// ContainsMessage reports whether a message contains substr.
func (h *BufferedSlogHandler) ContainsMessage(substr string) bool {
	return len(h.filter(func(r LogRecord) bool { return strings.Contains(r.Message, substr) })) > 0
}

// ContainsAttr reports whether a record carries key with exactly value.
// Integer attributes are captured as int64.
func (h *BufferedSlogHandler) ContainsAttr(key string, value any) bool {
	return len(h.filter(func(r LogRecord) bool {
		v, ok := r.Attrs[key]
		return ok && v == value
	})) > 0
}

// Count returns the number of captured records.
func (h *BufferedSlogHandler) Count() int {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return len(h.sink.records)
}

// Clear drops every captured record.
func (h *BufferedSlogHandler) Clear() {
	h.sink.mu.Lock()
	h.sink.records = nil
	h.sink.mu.Unlock()
}

// TestingT is the subset of *testing.T the assertion helpers need.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
}

func dump(records []LogRecord) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = "  " + r.String()
	}
	return strings.Join(lines, "\n")
}

// AssertLogContains fails t unless a record at level contains message.
func AssertLogContains(t TestingT, h *BufferedSlogHandler, level slog.Level, message string) bool {
	t.Helper()
	found := h.filter(func(r LogRecord) bool {
		return r.Level == level && strings.Contains(r.Message, message)
	})
	if len(found) > 0 {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("no %s log containing %q", level, message), "captured:\n%s", dump(h.GetRecords()))
}

// AssertLogAttr fails t unless some record carries key=value.
func AssertLogAttr(t TestingT, h *BufferedSlogHandler, key string, value any) bool {
	t.Helper()
	if h.ContainsAttr(key, value) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("no log with %s=%v", key, value), "captured:\n%s", dump(h.GetRecords()))
}

// AssertNoErrors fails t if anything was logged at error level.
func AssertNoErrors(t TestingT, h *BufferedSlogHandler) bool {
	t.Helper()
	errs := h.GetRecordsByLevel(slog.LevelError)
	if len(errs) == 0 {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("%d error logs", len(errs)), dump(errs))
}
