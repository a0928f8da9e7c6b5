package session

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrCorruptRecord is returned when a persisted record cannot be decoded
// back into a Session.
var ErrCorruptRecord = errors.New("corrupt session record")

// Encode serializes a session into the textual form written to local
// durable storage. The format is plain JSON under a single well-known key;
// there is no schema version and no migration path.
func Encode(s *Session) (string, error) {
	if s == nil {
		return "", errors.New("cannot encode nil session")
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Decode parses a persisted record. Records that are empty, not JSON, or
// missing an access token decode to ErrCorruptRecord; callers treat that
// the same as an absent record.
func Decode(value string) (*Session, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, ErrCorruptRecord
	}

	var s Session
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return nil, ErrCorruptRecord
	}
	if s.AccessToken == "" {
		return nil, ErrCorruptRecord
	}
	return &s, nil
}
