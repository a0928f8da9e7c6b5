package goSession

import (
	"context"
	"errors"
	"testing"
)

func bootstrappedStore(t *testing.T, p *stubProvider, st storageIface) *Store {
	t.Helper()
	store := newTestStore(t, p, st)
	if err := store.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return store
}

func TestSignInRejectedLeavesStateUnchanged(t *testing.T) {
	p := &stubProvider{signInErr: ErrInvalidCredentials}
	st := newMemory()
	store := bootstrappedStore(t, p, st)

	err := store.SignIn(context.Background(), "x@y.com", "bad")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("SignIn error = %v, want provider error verbatim", err)
	}

	state := store.State()
	if state.Loading || state.Session != nil {
		t.Fatalf("failed sign-in mutated state: %+v", state)
	}
	if storedSession(t, st) != nil {
		t.Fatal("failed sign-in wrote a record")
	}
}

func TestSignInSuccessAppliesViaNotification(t *testing.T) {
	sessA := makeSession("a")
	p := &stubProvider{}
	st := newMemory()
	store := bootstrappedStore(t, p, st)

	if err := store.SignIn(context.Background(), "x@y.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	// State only moves when the backend pushes the issued session.
	if store.State().Session != nil {
		t.Fatal("sign-in mutated state before the notification arrived")
	}

	p.push(sessA)

	state := store.State()
	if !state.Session.Equal(sessA) {
		t.Fatalf("session = %+v, want %+v", state.Session, sessA)
	}
	if got := storedSession(t, st); !got.Equal(sessA) {
		t.Fatalf("persisted record = %+v, want %+v", got, sessA)
	}
}

func TestSignOutClearsBothLayers(t *testing.T) {
	sessA := makeSession("a")
	p := &stubProvider{current: sessA}
	st := newMemory()
	store := bootstrappedStore(t, p, st)

	if err := store.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	if got := store.State().Session; got != nil {
		t.Fatalf("session = %+v, want nil", got)
	}
	if storedSession(t, st) != nil {
		t.Fatal("persisted record should be absent after sign-out")
	}
}

func TestSignOutFailureKeepsLocalStateByDefault(t *testing.T) {
	sessA := makeSession("a")
	remoteErr := errors.New("service unavailable")
	p := &stubProvider{current: sessA, signOutErr: remoteErr}
	st := newMemory()
	store := bootstrappedStore(t, p, st)

	err := store.SignOut(context.Background())
	if !errors.Is(err, remoteErr) {
		t.Fatalf("SignOut error = %v, want remote error verbatim", err)
	}

	if got := store.State().Session; !got.Equal(sessA) {
		t.Fatalf("session = %+v, want untouched local state", got)
	}
	if got := storedSession(t, st); !got.Equal(sessA) {
		t.Fatalf("record = %+v, want untouched", got)
	}
}

func TestSignOutClearLocalOnFailure(t *testing.T) {
	sessA := makeSession("a")
	remoteErr := errors.New("service unavailable")
	p := &stubProvider{current: sessA, signOutErr: remoteErr}
	st := newMemory()

	cfg := defaultConfig()
	cfg.SignOut.ClearLocalOnFailure = true
	store, err := New().WithConfig(cfg).WithProvider(p).WithStorage(st).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer store.Close()
	if err := store.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	if err := store.SignOut(context.Background()); !errors.Is(err, remoteErr) {
		t.Fatalf("SignOut error = %v, want remote error even when clearing locally", err)
	}
	if store.State().Session != nil {
		t.Fatal("local session should be cleared with ClearLocalOnFailure")
	}
	if storedSession(t, st) != nil {
		t.Fatal("persisted record should be cleared with ClearLocalOnFailure")
	}
}

func TestSignUpErrorVerbatim(t *testing.T) {
	backendErr := errors.New("password too weak")
	p := &stubProvider{signUpErr: backendErr}
	store := bootstrappedStore(t, p, newMemory())

	if err := store.SignUp(context.Background(), "x@y.com", "123"); !errors.Is(err, backendErr) {
		t.Fatalf("SignUp error = %v, want backend error verbatim", err)
	}
	if store.State().Session != nil {
		t.Fatal("failed sign-up mutated state")
	}
}

func TestResetPasswordNeverTouchesState(t *testing.T) {
	sessA := makeSession("a")
	p := &stubProvider{current: sessA}
	st := newMemory()
	store := bootstrappedStore(t, p, st)

	if err := store.ResetPassword(context.Background(), "x@y.com"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if got := store.State().Session; !got.Equal(sessA) {
		t.Fatalf("reset password mutated state: %+v", got)
	}
	p.mu.Lock()
	calls := p.resetCalls
	p.mu.Unlock()
	if calls != 1 {
		t.Fatalf("reset calls = %d, want 1", calls)
	}
}
