package goSession

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/storage"
)

// Bootstrap runs the one-time startup reconciliation: restore the cached
// record for instant display, register the standing change-notification
// subscription, fetch the authoritative session, overwrite the provisional
// value with it, and mirror the result back into storage. Loading flips to
// false exactly once, no matter which step fails.
//
// The provisional cached value exists only to avoid a visible logged-out
// flash; the authoritative fetch always supersedes it. When the fetch and a
// push notification overlap, whichever completes last wins.
//
// Bootstrap returns the provider's fetch error verbatim (nil on success and
// after teardown). It must be called at most once; later calls return
// ErrBootstrapStarted.
func (s *Store) Bootstrap(ctx context.Context) error {
	if s == nil {
		return ErrStoreClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	if s.bootstrapped {
		s.mu.Unlock()
		return ErrBootstrapStarted
	}
	s.bootstrapped = true
	s.mu.Unlock()

	start := timeNow()
	s.emit(ctx, AuditEvent{EventType: AuditBootstrapStart, Success: true})

	// The standing subscription is independent of the cached read and the
	// authoritative fetch: notifications may apply before the fetch returns.
	s.subscribe(ctx)

	s.restoreCached(ctx)

	current, err := s.fetchAuthoritative(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.metrics.Inc(MetricStaleResultDiscarded)
		s.emit(ctx, AuditEvent{EventType: AuditStaleDiscarded, Success: true})
		return nil
	}

	if err != nil {
		s.metrics.Inc(MetricBootstrapFetchFailure)
		// The provisional value stays: a transient fetch failure must not
		// log the user out locally.
	} else {
		s.metrics.Inc(MetricBootstrapFetchSuccess)
		s.state.Session = current.Clone().Hydrate()
		s.persistLocked(ctx, s.state.Session)
	}

	s.state.Loading = false
	state, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, state)

	s.metrics.Observe(MetricBootstrapLatency, timeNow().Sub(start))
	event := AuditEvent{EventType: AuditBootstrapComplete, Success: err == nil}
	if err != nil {
		event.Error = err.Error()
	} else if current != nil {
		event.UserID = current.UserID
	}
	s.emit(ctx, event)

	return err
}

// subscribe registers the change-notification subscription and parks its
// handle for Close. A subscription failure is recorded but does not abort
// bootstrap; the store still reconciles via the authoritative fetch.
func (s *Store) subscribe(ctx context.Context) {
	sub, err := s.provider.OnSessionChange(s.handleNotification)
	if err != nil {
		s.metrics.Inc(MetricSubscribeFailure)
		s.emit(ctx, AuditEvent{EventType: AuditSubscribeError, Error: err.Error()})
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	s.sub = sub
	s.mu.Unlock()
}

// restoreCached optimistically loads the persisted record into memory. Any
// read or decode failure downgrades to "no cached session".
func (s *Store) restoreCached(ctx context.Context) {
	record, err := s.storage.Get(ctx, s.config.Storage.Key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.metrics.Inc(MetricStorageReadFailure)
			s.emit(ctx, AuditEvent{EventType: AuditStorageReadError, Error: err.Error()})
		}
		s.metrics.Inc(MetricBootstrapCacheMiss)
		return
	}

	cached, err := session.Decode(record)
	if err != nil {
		s.metrics.Inc(MetricBootstrapCacheCorrupt)
		s.emit(ctx, AuditEvent{EventType: AuditBootstrapCacheCorrupt, Error: err.Error()})
		// A record existed even though it would not decode; remember that
		// so a null authoritative result still erases it.
		s.mu.Lock()
		s.hadRecord = true
		s.mu.Unlock()
		return
	}

	s.metrics.Inc(MetricBootstrapCacheHit)
	s.emit(ctx, AuditEvent{EventType: AuditBootstrapCacheHit, UserID: cached.UserID, Success: true})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.hadRecord = true
	s.state.Session = cached
	state, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, state)
}

// fetchAuthoritative queries the identity service for the current session,
// bounded by the configured fetch timeout when one is set.
func (s *Store) fetchAuthoritative(ctx context.Context) (*session.Session, error) {
	if t := s.config.Bootstrap.FetchTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	return s.provider.GetCurrentSession(ctx)
}

// handleNotification is the standing subscription callback. It replaces the
// session wholesale and mirrors the change into storage; results arriving
// after Close are dropped.
func (s *Store) handleNotification(next *session.Session) {
	ctx := context.Background()
	if !s.applySession(ctx, next.Clone().Hydrate(), true) {
		return
	}
	s.metrics.Inc(MetricNotificationApplied)

	event := AuditEvent{EventType: AuditNotificationApplied, Success: true}
	if next != nil {
		event.UserID = next.UserID
	}
	s.emit(ctx, event)
}
