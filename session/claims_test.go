package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	iat := time.Now().Truncate(time.Second)
	raw := signedToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": exp.Unix(),
		"iat": iat.Unix(),
	})

	claims, err := ParseClaims(raw)
	if err != nil {
		t.Fatalf("parse claims: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("subject = %q, want user-42", claims.Subject)
	}
	if claims.ExpiresAt != exp.Unix() {
		t.Fatalf("exp = %d, want %d", claims.ExpiresAt, exp.Unix())
	}
	if claims.IssuedAt != iat.Unix() {
		t.Fatalf("iat = %d, want %d", claims.IssuedAt, iat.Unix())
	}
}

func TestParseClaimsRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b"} {
		if _, err := ParseClaims(raw); err != ErrTokenUnparseable {
			t.Fatalf("ParseClaims(%q) = %v, want ErrTokenUnparseable", raw, err)
		}
	}
}

func TestHydrateBackfillsFromToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": exp.Unix(),
	})

	s := (&Session{AccessToken: raw}).Hydrate()
	if s.UserID != "user-42" {
		t.Fatalf("user id = %q, want user-42", s.UserID)
	}
	if s.ExpiresAt != exp.Unix() {
		t.Fatalf("expires at = %d, want %d", s.ExpiresAt, exp.Unix())
	}
}

func TestHydrateKeepsServiceValues(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"sub": "token-user", "exp": int64(1)})

	s := (&Session{UserID: "service-user", AccessToken: raw, ExpiresAt: 99}).Hydrate()
	if s.UserID != "service-user" || s.ExpiresAt != 99 {
		t.Fatalf("hydrate overwrote service values: %+v", s)
	}
}

func TestHydrateOpaqueToken(t *testing.T) {
	s := (&Session{AccessToken: "opaque-token"}).Hydrate()
	if s.UserID != "" || s.ExpiresAt != 0 {
		t.Fatalf("hydrate invented values for opaque token: %+v", s)
	}

	var nilSession *Session
	if nilSession.Hydrate() != nil {
		t.Fatal("hydrating nil session should return nil")
	}
}
