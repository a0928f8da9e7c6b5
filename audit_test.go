package goSession

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestChannelSinkReceivesStoreEvents(t *testing.T) {
	sink := NewChannelSink(64)
	p := &stubProvider{signInErr: ErrInvalidCredentials}

	cfg := defaultConfig()
	cfg.Audit.Enabled = true

	store, err := New().WithConfig(cfg).WithProvider(p).WithStorage(newMemory()).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if err := store.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	_ = store.SignIn(context.Background(), "x@y.com", "bad")
	store.Close() // drains the dispatcher

	var types []string
	for {
		select {
		case ev := <-sink.Events():
			types = append(types, ev.EventType)
			continue
		default:
		}
		break
	}

	want := map[string]bool{AuditBootstrapStart: false, AuditBootstrapComplete: false, AuditSignIn: false}
	for _, typ := range types {
		if _, ok := want[typ]; ok {
			want[typ] = true
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Fatalf("event %q not emitted (got %v)", typ, types)
		}
	}
}

func TestSignInFailureEventCarriesError(t *testing.T) {
	sink := NewChannelSink(64)
	p := &stubProvider{signInErr: errors.New("invalid login credentials")}

	cfg := defaultConfig()
	cfg.Audit.Enabled = true

	store, err := New().WithConfig(cfg).WithProvider(p).WithStorage(newMemory()).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	_ = store.SignIn(context.Background(), "x@y.com", "bad")
	store.Close()

	for {
		select {
		case ev := <-sink.Events():
			if ev.EventType == AuditSignIn {
				if ev.Success {
					t.Fatal("failed sign-in marked successful")
				}
				if ev.Error != "invalid login credentials" {
					t.Fatalf("event error = %q, want backend message verbatim", ev.Error)
				}
				return
			}
			continue
		default:
			t.Fatal("signin event not emitted")
		}
	}
}

func TestJSONWriterSinkOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{Timestamp: time.Now(), EventType: AuditSignOut, Success: true})
	sink.Emit(context.Background(), AuditEvent{Timestamp: time.Now(), EventType: AuditStaleDiscarded, Success: true})

	scanner := bufio.NewScanner(&buf)
	var lines int
	for scanner.Scan() {
		lines++
		var ev AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("line %d not valid JSON: %v", lines, err)
		}
	}
	if lines != 2 {
		t.Fatalf("lines = %d, want 2", lines)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	sink := blockingSink{release: block}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// First event occupies the sink, second fills the buffer, third drops.
	for i := 0; i < 8; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: AuditSignIn})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events with a full buffer")
	}
	close(block)
	d.Close()
}

func TestDispatcherDisabled(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("disabled audit should not allocate a dispatcher")
	}
	d.Emit(context.Background(), AuditEvent{}) // nil receiver must be safe
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher dropped count should be 0")
	}
}

type blockingSink struct {
	release <-chan struct{}
}

func (s blockingSink) Emit(_ context.Context, _ AuditEvent) {
	<-s.release
}
