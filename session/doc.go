// Package session defines the session token bundle exchanged with the
// identity service and the textual codec used for the persisted mirror.
//
// # Architecture boundaries
//
// This package owns the Session value type, its JSON record codec, and
// unverified claim extraction. State coordination lives in the root goSession
// package; persistence backends live in storage/.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Verify token signatures (the identity service is the authority).
//   - Import goSession or any sibling package.
package session
