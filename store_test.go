package goSession

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/storage"
)

// stubProvider is a controllable IdentityProvider. The fetch gate lets tests
// hold the authoritative fetch in flight while notifications interleave.
type stubProvider struct {
	mu       sync.Mutex
	current  *session.Session
	fetchErr error

	fetchGate    chan struct{}
	fetchStarted chan struct{}

	callback     func(*session.Session)
	subscribeErr error
	unsubCount   int

	signInErr  error
	signUpErr  error
	signOutErr error
	resetErr   error

	signInCalls  int
	signUpCalls  int
	signOutCalls int
	resetCalls   int
}

func (p *stubProvider) GetCurrentSession(ctx context.Context) (*session.Session, error) {
	p.mu.Lock()
	gate := p.fetchGate
	started := p.fetchStarted
	p.mu.Unlock()

	if started != nil {
		close(started)
		p.mu.Lock()
		p.fetchStarted = nil
		p.mu.Unlock()
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return p.current.Clone(), nil
}

func (p *stubProvider) OnSessionChange(callback func(*session.Session)) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.subscribeErr != nil {
		return nil, p.subscribeErr
	}
	p.callback = callback
	return &stubSubscription{provider: p}, nil
}

// push simulates the backend delivering a change notification.
func (p *stubProvider) push(s *session.Session) {
	p.mu.Lock()
	cb := p.callback
	p.mu.Unlock()
	if cb != nil {
		cb(s)
	}
}

func (p *stubProvider) SignInWithPassword(context.Context, string, string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signInCalls++
	return p.signInErr
}

func (p *stubProvider) SignUp(context.Context, string, string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signUpCalls++
	return p.signUpErr
}

func (p *stubProvider) SignOut(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOutCalls++
	return p.signOutErr
}

func (p *stubProvider) ResetPasswordForEmail(context.Context, string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetCalls++
	return p.resetErr
}

type stubSubscription struct {
	provider *stubProvider
	once     sync.Once
}

func (s *stubSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.provider.mu.Lock()
		defer s.provider.mu.Unlock()
		s.provider.callback = nil
		s.provider.unsubCount++
	})
}

// failingStorage forces errors on selected operations.
type failingStorage struct {
	inner     storage.Storage
	getErr    error
	setErr    error
	removeErr error
}

func (f *failingStorage) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.inner.Get(ctx, key)
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.inner.Set(ctx, key, value)
}

func (f *failingStorage) Remove(ctx context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.inner.Remove(ctx, key)
}

type storageIface = storage.Storage

func newMemory() *storage.MemoryStorage {
	return storage.NewMemoryStorage()
}

func makeSession(userID string) *session.Session {
	return &session.Session{
		UserID:       userID,
		AccessToken:  "at-" + userID,
		RefreshToken: "rt-" + userID,
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}
}

func newTestStore(t *testing.T, p IdentityProvider, st storage.Storage) *Store {
	t.Helper()
	store, err := New().
		WithProvider(p).
		WithStorage(st).
		Build()
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func seedRecord(t *testing.T, st storage.Storage, s *session.Session) {
	t.Helper()
	record, err := session.Encode(s)
	if err != nil {
		t.Fatalf("encode seed record: %v", err)
	}
	if err := st.Set(context.Background(), DefaultStorageKey, record); err != nil {
		t.Fatalf("seed record: %v", err)
	}
}

func storedSession(t *testing.T, st storage.Storage) *session.Session {
	t.Helper()
	record, err := st.Get(context.Background(), DefaultStorageKey)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil
		}
		t.Fatalf("read record: %v", err)
	}
	s, err := session.Decode(record)
	if err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return s
}
