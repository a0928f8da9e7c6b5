// Package goSession provides client-side session persistence and auth-state
// synchronization against a hosted identity service. It owns the single
// in-process copy of the current session, mirrors it into local durable
// storage for fast cold-start, and keeps both reconciled with the service's
// push notification stream.
//
// The package is designed for event-driven clients: a Store is built once via
// [Builder.Build], bootstrapped once via [Store.Bootstrap], and torn down via
// [Store.Close]. All Store methods are safe for concurrent use.
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Store], [Builder], [Config],
// the [IdentityProvider] contract, and value types (AuthState, MetricsSnapshot,
// AuditEvent). Token modelling and the record codec live in session/, storage
// backends in storage/, the websocket change feed in realtime/, and the HTTP
// identity client in identity/.
//
// # What this package must NOT do
//
//   - Inspect token contents (the identity service is the authority).
//   - Retry failed identity-service calls; retry is the caller's concern.
//   - Surface storage failures to callers; they downgrade to "record absent".
//   - Import any sub-package that re-imports goSession (no import cycles).
//
// # Consistency contract
//
// The persisted record always reflects the most recent session the Store
// observed at the time of its last successful write; it may trail the
// service's true state by one change. When the bootstrap fetch and a push
// notification overlap, the one completing last wins, for both the in-memory
// slot and the persisted mirror.
package goSession
