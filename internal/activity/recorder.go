// Package activity records a best-effort audit trail of authenticated requests.
// Writes happen off the request path and their failures never reach the client.
package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/recruitdesk/apiserver/types"
)

const (
	defaultBufferSize   = 256
	defaultWriteTimeout = 5 * time.Second
)

// Sink persists or forwards a single activity entry.
type Sink interface {
	Write(ctx context.Context, entry types.ActivityLog) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, entry types.ActivityLog) error

func (f SinkFunc) Write(ctx context.Context, entry types.ActivityLog) error {
	return f(ctx, entry)
}

// Recorder queues entries on a buffered channel drained by one goroutine.
type Recorder struct {
	sink    Sink
	entries chan types.ActivityLog
	onDrop  func()
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithBufferSize sets how many entries may wait before new ones are dropped.
func WithBufferSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.entries = make(chan types.ActivityLog, n)
		}
	}
}

// WithDropHook is called every time an entry is discarded.
func WithDropHook(fn func()) Option {
	return func(r *Recorder) { r.onDrop = fn }
}

// NewRecorder starts the background writer.
func NewRecorder(sink Sink, opts ...Option) *Recorder {
	r := &Recorder{
		sink:    sink,
		entries: make(chan types.ActivityLog, defaultBufferSize),
		timeout: defaultWriteTimeout,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.run()
	return r
}

// Record enqueues entry without blocking. A full buffer drops the entry.
func (r *Recorder) Record(entry types.ActivityLog) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.entries <- entry:
	default:
		slog.Warn("activity log buffer full, dropping entry",
			slog.String("user_id", entry.UserID),
			slog.String("action", entry.Action),
			slog.String("endpoint", entry.Endpoint),
		)
		if r.onDrop != nil {
			r.onDrop()
		}
	}
}

// Close stops accepting entries and waits for queued ones to be written
// or for ctx to end.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.entries)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) run() {
	defer close(r.done)
	for entry := range r.entries {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		if err := r.sink.Write(ctx, entry); err != nil {
			slog.Error("failed to write activity log",
				slog.String("user_id", entry.UserID),
				slog.String("action", entry.Action),
				slog.String("error", err.Error()),
			)
		}
		cancel()
	}
}
