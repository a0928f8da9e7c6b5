package session

import "time"

// Session is the opaque token bundle issued by the identity service. The
// client never interprets token contents beyond presence checks; fields are
// carried through unmodified from the service response.
//
// Session instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Session struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt and IssuedAt are unix seconds. ExpiresAt zero means the
	// service did not report an expiry.
	ExpiresAt int64 `json:"expires_at,omitempty"`
	IssuedAt  int64 `json:"issued_at,omitempty"`
}

// Expired reports whether the session's access token expiry has passed at
// the given instant. Sessions without a reported expiry never expire
// client-side; the service remains the authority.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt == 0 {
		return false
	}
	return s.ExpiresAt <= now.Unix()
}

// Clone returns a copy safe for independent use. Clone of nil is nil.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

// Equal reports whether two sessions carry the same token bundle.
// Two nils are equal.
func (s *Session) Equal(other *Session) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	return *s == *other
}
