package goSession

import (
	"context"
	"sync"
	"time"

	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/storage"
	"github.com/google/uuid"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// Store defines a public type used by goSession APIs.
//
// Store is the single in-process holder of AuthState, reconciled with the
// identity service and mirrored into local storage. It is constructed
// through [Builder.Build], initialized once through [Store.Bootstrap], and
// torn down through [Store.Close].
type Store struct {
	config   Config
	provider IdentityProvider
	storage  storage.Storage
	metrics  *Metrics
	audit    *auditDispatcher

	mu           sync.Mutex
	state        AuthState
	closed       bool
	bootstrapped bool
	hadRecord    bool
	sub          Subscription
	listeners    map[string]StateListener
}

// State describes the state operation and its observable behavior.
//
// State returns a copy of the current AuthState; mutating the returned
// session does not affect the Store.
func (s *Store) State() AuthState {
	if s == nil {
		return AuthState{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return AuthState{
		Session: s.state.Session.Clone(),
		Loading: s.state.Loading,
	}
}

// OnStateChange registers a listener invoked with a state copy after every
// observable change. It returns a registration ID for RemoveStateListener.
// Listeners registered after Close are never invoked.
func (s *Store) OnStateChange(listener StateListener) string {
	if s == nil || listener == nil {
		return ""
	}
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return id
	}
	s.listeners[id] = listener
	return id
}

// RemoveStateListener drops a previously registered listener. Unknown IDs
// are a no-op.
func (s *Store) RemoveStateListener(id string) {
	if s == nil || id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, id)
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) MetricsSnapshot() MetricsSnapshot {
	if s == nil || s.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return s.metrics.Snapshot()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) AuditDropped() uint64 {
	if s == nil || s.audit == nil {
		return 0
	}
	return s.audit.Dropped()
}

// Close unregisters the change-notification subscription, flips the
// liveness guard, and flushes the audit dispatcher. Any asynchronous result
// arriving after Close is silently discarded. Close is idempotent.
func (s *Store) Close() {
	if s == nil {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sub := s.sub
	s.sub = nil
	s.listeners = make(map[string]StateListener)
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if s.audit != nil {
		s.audit.Close()
	}
}

// applySession replaces the in-memory session and mirrors the change into
// storage, then notifies listeners. Callers must NOT hold s.mu. Returns
// false when the store is closed and the result was discarded.
func (s *Store) applySession(ctx context.Context, next *session.Session, persist bool) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.metrics.Inc(MetricStaleResultDiscarded)
		s.emit(ctx, AuditEvent{EventType: AuditStaleDiscarded, Success: true})
		return false
	}

	s.state.Session = next.Clone()
	if persist {
		s.persistLocked(ctx, next)
	}
	state, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, state)
	return true
}

// persistLocked mirrors the given session into storage under the well-known
// key. Storage failures are swallowed: they are counted, audited, and
// otherwise invisible to callers. Caller must hold s.mu.
func (s *Store) persistLocked(ctx context.Context, sess *session.Session) {
	key := s.config.Storage.Key

	if sess == nil {
		if !s.hadRecord {
			return
		}
		if err := s.storage.Remove(ctx, key); err != nil {
			s.metrics.Inc(MetricStorageWriteFailure)
			s.emit(ctx, AuditEvent{EventType: AuditStorageWriteError, Error: err.Error()})
			return
		}
		s.hadRecord = false
		return
	}

	record, err := session.Encode(sess)
	if err != nil {
		s.metrics.Inc(MetricStorageWriteFailure)
		s.emit(ctx, AuditEvent{EventType: AuditStorageWriteError, Error: err.Error()})
		return
	}
	if err := s.storage.Set(ctx, key, record); err != nil {
		s.metrics.Inc(MetricStorageWriteFailure)
		s.emit(ctx, AuditEvent{EventType: AuditStorageWriteError, Error: err.Error()})
		return
	}
	s.hadRecord = true
}

// snapshotLocked copies the current state and listener set for notification
// outside the lock. Caller must hold s.mu.
func (s *Store) snapshotLocked() (AuthState, []StateListener) {
	state := AuthState{
		Session: s.state.Session.Clone(),
		Loading: s.state.Loading,
	}
	listeners := make([]StateListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	return state, listeners
}

func notify(listeners []StateListener, state AuthState) {
	for _, l := range listeners {
		l(state)
	}
}

func (s *Store) emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = timeNow()
	}
	s.audit.Emit(ctx, event)
}
