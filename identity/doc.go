// Package identity implements the goSession.IdentityProvider contract
// against a GoTrue-style REST identity service.
//
// # Architecture boundaries
//
// This package owns HTTP transport, token-grant payloads, and API error
// decoding. The session store never sees HTTP details: it receives sessions,
// change notifications, and the service's errors verbatim.
//
// # What this package must NOT do
//
//   - Transform or wrap backend error messages (the UI renders them as-is).
//   - Persist anything; the persisted mirror belongs to the session store.
//   - Retry failed calls.
package identity
