package goSession

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Audit event types emitted by the session store.
const (
	AuditBootstrapStart        = "bootstrap.start"
	AuditBootstrapCacheHit     = "bootstrap.cache_hit"
	AuditBootstrapCacheCorrupt = "bootstrap.cache_corrupt"
	AuditBootstrapComplete     = "bootstrap.complete"
	AuditSignIn                = "signin"
	AuditSignUp                = "signup"
	AuditSignOut               = "signout"
	AuditPasswordReset         = "password_reset"
	AuditNotificationApplied   = "notification.applied"
	AuditStaleDiscarded        = "stale.discarded"
	AuditStorageReadError      = "storage.read_error"
	AuditStorageWriteError     = "storage.write_error"
	AuditSubscribeError        = "subscribe.error"
)

// AuditEvent is a structured record of one observable session-store action.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives emitted audit events.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink drops audit events.
type NoOpSink struct{}

// Emit discards the event.
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink writes audit events into a buffered channel.
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink creates a ChannelSink with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

// Emit blocks until the event is buffered or ctx is done.
func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the receive side of the sink.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a JSONWriterSink that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

// Emit serializes the event and appends a newline. Write errors are dropped;
// auditing never fails the operation being audited.
func (s *JSONWriterSink) Emit(_ context.Context, event AuditEvent) {
	raw, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.writer.Write(append(raw, '\n'))
}
