package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenUnparseable is returned when an access token is not a decodable JWT.
var ErrTokenUnparseable = errors.New("access token not parseable")

// Claims is the subset of access-token claims the client ever looks at.
// Extraction is unverified: the client has no signing key and does not
// validate tokens, it only backfills metadata the service response omitted.
type Claims struct {
	Subject   string
	ExpiresAt int64
	IssuedAt  int64
}

// ParseClaims decodes the claims of an access token without verifying its
// signature. Validation remains the identity service's job.
func ParseClaims(accessToken string) (*Claims, error) {
	if accessToken == "" {
		return nil, ErrTokenUnparseable
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, ErrTokenUnparseable
	}

	out := &Claims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Unix()
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Unix()
	}
	return out, nil
}

// Hydrate backfills UserID and ExpiresAt from the access token's claims when
// the service response left them empty. Sessions with an unparseable token
// are returned unchanged.
func (s *Session) Hydrate() *Session {
	if s == nil || (s.UserID != "" && s.ExpiresAt != 0) {
		return s
	}
	claims, err := ParseClaims(s.AccessToken)
	if err != nil {
		return s
	}
	if s.UserID == "" {
		s.UserID = claims.Subject
	}
	if s.ExpiresAt == 0 {
		s.ExpiresAt = claims.ExpiresAt
	}
	if s.IssuedAt == 0 {
		s.IssuedAt = claims.IssuedAt
	}
	return s
}
