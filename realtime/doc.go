// Package realtime implements the client side of the identity service's
// change-notification stream over a websocket connection.
//
// # Design
//
// One Listener per registration, one connection per Listener. Frames are
// JSON objects carrying an event name and the full new session; the listener
// decodes and relays them to a callback, translating SIGNED_OUT into a nil
// session. There is no reconnect logic: a dropped feed is reconciled by the
// session store's next authoritative fetch.
//
// # What this package must NOT do
//
//   - Hold or interpret session state beyond decoding frames.
//   - Retry, buffer, or reorder notifications.
//   - Import goSession (the root package consumes this one).
package realtime
