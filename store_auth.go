package goSession

import "context"

// SignIn delegates the credential check to the identity service. On success
// the service's change-notification path delivers the new session; SignIn
// itself never mutates state and never touches Loading. The provider's
// error is returned verbatim.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	if err := s.live(); err != nil {
		return err
	}

	err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.metrics.Inc(MetricSignInFailure)
		s.emit(ctx, AuditEvent{EventType: AuditSignIn, Error: err.Error()})
		return err
	}

	s.metrics.Inc(MetricSignInSuccess)
	s.emit(ctx, AuditEvent{EventType: AuditSignIn, Success: true})
	return nil
}

// SignUp delegates account creation to the identity service. Whether a
// session is issued immediately is backend policy (e.g. email confirmation)
// and opaque here; any session arrives via the notification path. The
// provider's error is returned verbatim.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	if err := s.live(); err != nil {
		return err
	}

	err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		s.metrics.Inc(MetricSignUpFailure)
		s.emit(ctx, AuditEvent{EventType: AuditSignUp, Error: err.Error()})
		return err
	}

	s.metrics.Inc(MetricSignUpSuccess)
	s.emit(ctx, AuditEvent{EventType: AuditSignUp, Success: true})
	return nil
}

// SignOut requests remote session invalidation. On success both layers are
// cleared immediately, without waiting for the change notification, so a
// concurrent notification cannot leave a signed-out user looking signed in.
// On failure local state is kept unless Config.SignOut.ClearLocalOnFailure
// is set; the provider's error is returned verbatim either way.
func (s *Store) SignOut(ctx context.Context) error {
	if err := s.live(); err != nil {
		return err
	}

	err := s.provider.SignOut(ctx)
	if err == nil || s.config.SignOut.ClearLocalOnFailure {
		s.applySession(ctx, nil, true)
	}

	if err != nil {
		s.metrics.Inc(MetricSignOutFailure)
		s.emit(ctx, AuditEvent{EventType: AuditSignOut, Error: err.Error()})
		return err
	}

	s.metrics.Inc(MetricSignOutSuccess)
	s.emit(ctx, AuditEvent{EventType: AuditSignOut, Success: true})
	return nil
}

// ResetPassword fires a reset request for the given email. It never alters
// local session state. The provider's error is returned verbatim.
func (s *Store) ResetPassword(ctx context.Context, email string) error {
	if err := s.live(); err != nil {
		return err
	}

	err := s.provider.ResetPasswordForEmail(ctx, email)
	if err != nil {
		s.metrics.Inc(MetricPasswordResetFailure)
		s.emit(ctx, AuditEvent{EventType: AuditPasswordReset, Error: err.Error()})
		return err
	}

	s.metrics.Inc(MetricPasswordResetRequest)
	s.emit(ctx, AuditEvent{EventType: AuditPasswordReset, Success: true})
	return nil
}

func (s *Store) live() error {
	if s == nil {
		return ErrStoreClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}
