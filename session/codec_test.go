package session

import (
	"testing"
	"time"
)

func testSession() *Session {
	now := time.Now()
	return &Session{
		UserID:       "u-1",
		AccessToken:  "at-1",
		TokenType:    "bearer",
		RefreshToken: "rt-1",
		ExpiresAt:    now.Add(time.Hour).Unix(),
		IssuedAt:     now.Unix(),
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := testSession()

	raw, err := Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.Equal(s) {
		t.Fatalf("round trip mismatch: got %+v want %+v", decoded, s)
	}
}

func TestEncodeNilSession(t *testing.T) {
	if _, err := Encode(nil); err == nil {
		t.Fatal("expected error encoding nil session")
	}
}

func TestDecodeRejectsCorruptRecords(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"not json", "{{{"},
		{"truncated", `{"access_token":"at`},
		{"missing token", `{"user_id":"u-1"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.value); err != ErrCorruptRecord {
				t.Fatalf("expected ErrCorruptRecord, got %v", err)
			}
		})
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()

	live := &Session{AccessToken: "at", ExpiresAt: now.Add(time.Minute).Unix()}
	if live.Expired(now) {
		t.Fatal("live session reported expired")
	}

	stale := &Session{AccessToken: "at", ExpiresAt: now.Add(-time.Minute).Unix()}
	if !stale.Expired(now) {
		t.Fatal("stale session reported live")
	}

	noExpiry := &Session{AccessToken: "at"}
	if noExpiry.Expired(now) {
		t.Fatal("session without expiry reported expired")
	}

	var nilSession *Session
	if nilSession.Expired(now) {
		t.Fatal("nil session reported expired")
	}
}

func TestCloneAndEqual(t *testing.T) {
	s := testSession()
	c := s.Clone()
	if !c.Equal(s) {
		t.Fatal("clone not equal to original")
	}

	c.AccessToken = "other"
	if s.AccessToken != "at-1" {
		t.Fatal("mutating clone changed original")
	}
	if c.Equal(s) {
		t.Fatal("diverged clone still equal")
	}

	var a, b *Session
	if !a.Equal(b) {
		t.Fatal("two nil sessions should be equal")
	}
	if a.Equal(s) || s.Equal(a) {
		t.Fatal("nil and non-nil sessions should not be equal")
	}
}
