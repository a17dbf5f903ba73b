package errorlog

import (
	"context"
	"sync"
	"time"
)

// Severity levels for operational error reports.
const (
	LevelWarn  = 2
	LevelError = 3
)

// Entry is one operational anomaly report. Context carries the identifying
// details (month, host, room) the on-call needs to act on it.
type Entry struct {
	Level     int
	AppName   string
	Message   string
	Context   map[string]any
	CreatedAt time.Time
}

// Logger is the error-reporting sink for non-fatal anomalies. Implementations
// must never fail the calling computation; reporting is best-effort.
type Logger interface {
	Report(ctx context.Context, entry Entry) error
}

// Recorder is an in-memory Logger for tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder constructs an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Report appends the entry.
func (r *Recorder) Report(ctx context.Context, entry Entry) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// Entries returns a copy of everything reported so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
