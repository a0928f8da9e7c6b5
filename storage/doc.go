// Package storage provides the durable key-value backends the session store
// mirrors its last known session into.
//
// # Design
//
// The Storage interface is deliberately tiny (Get/Set/Remove on strings):
// the session store writes exactly one record under one well-known key and
// treats every failure as "record absent". Three backends ship with the
// module: process-local memory for tests, one-file-per-key with atomic
// renames for CLI/desktop clients, and Redis for server-hosted clients.
//
// # What this package must NOT do
//
//   - Interpret stored values (the codec lives in session/).
//   - Retry or mask errors; the caller owns the downgrade-to-absent policy.
//   - Import goSession or any sibling package.
package storage
