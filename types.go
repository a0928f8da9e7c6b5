package goSession

import (
	"context"

	"github.com/MrEthical07/goSession/session"
)

// AuthState defines a public type used by goSession APIs.
//
// AuthState is the derived view the UI layer renders from: the current
// session (nil when signed out) and whether the initial bootstrap window is
// still open. Loading flips from true to false exactly once per Store.
type AuthState struct {
	Session *session.Session
	Loading bool
}

// Subscription is a handle on a standing change-notification registration.
// Unsubscribe stops delivery and releases the underlying channel; it must be
// idempotent.
type Subscription interface {
	Unsubscribe()
}

// IdentityProvider is the primary interface that callers must implement to
// integrate goSession with their identity backend. It covers the
// authoritative session fetch, the push notification stream, and the four
// credential operations the Store delegates.
//
// Implementations must return their errors untransformed: the Store passes
// them through to the caller verbatim. The callback registered through
// OnSessionChange receives the full new session on every change, or nil when
// the service reports no active session.
type IdentityProvider interface {
	GetCurrentSession(ctx context.Context) (*session.Session, error)
	OnSessionChange(callback func(*session.Session)) (Subscription, error)
	SignInWithPassword(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	ResetPasswordForEmail(ctx context.Context, email string) error
}

// StateListener receives a copy of the AuthState after every observable
// change. Listeners run outside the Store's lock and must not call back into
// Store methods that mutate state.
type StateListener func(AuthState)
