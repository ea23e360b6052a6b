package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/errors"
	"github.com/linkshelf/linkshelf/internal/events"
)

// AuthState is a consistent copy of the auth store.
type AuthState struct {
	User    *domain.User
	Token   string
	Loading bool
	Error   string
}

// AuthStore owns the session: the access token, persisted in a durable slot
// so a restart keeps the user signed in, and the profile, fetched on demand.
type AuthStore struct {
	base
	api      AuthAPI
	slot     TokenSlot
	validate Validator
	now      func() time.Time

	mu      sync.RWMutex
	token   string
	user    *domain.User
	pending int
	err     string
}

// NewAuthStore creates an auth store, restoring the token from slot.
func NewAuthStore(api AuthAPI, slot TokenSlot, validate Validator, emitter EventEmitter, logger *slog.Logger) (*AuthStore, error) {
	token, err := slot.Get()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "restore access token")
	}
	return &AuthStore{
		base:     newBase("auth", emitter, logger),
		api:      api,
		slot:     slot,
		validate: validate,
		now:      time.Now,
		token:    token,
	}, nil
}

// Snapshot returns a copy of the current state.
func (s *AuthStore) Snapshot() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := AuthState{Token: s.token, Loading: s.pending > 0, Error: s.err}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// Token returns the current access token, or "".
// It is the token source of the API client.
func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the profile, or nil when it has not been fetched.
func (s *AuthStore) User() *domain.User {
	return s.Snapshot().User
}

// IsAuthenticated reports whether a token is held and, when the token
// carries an expiry, that it has not passed. The signature is not checked;
// the server remains the judge of validity.
func (s *AuthStore) IsAuthenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	exp, ok := tokenExpiry(token)
	if !ok {
		return true
	}
	return s.now().Before(exp)
}

// tokenExpiry reads the exp claim without verifying the token.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Login signs in and then fetches the profile, so token and user are
// consistent when it returns.
func (s *AuthStore) Login(ctx context.Context, creds domain.Credentials) error {
	creds.Email = strings.TrimSpace(creds.Email)
	if s.validate != nil {
		if err := s.validate.Validate(creds); err != nil {
			s.record(err, MsgLogin)
			return err
		}
	}
	return s.authenticate(ctx, "login", MsgLogin, func() (*domain.AuthResponse, error) {
		return s.api.SignIn(ctx, creds)
	})
}

// Signup checks the form locally (email shape, password length,
// confirmation), registers, and then fetches the profile.
func (s *AuthStore) Signup(ctx context.Context, in domain.SignupInput) error {
	in.Email = strings.TrimSpace(in.Email)
	if s.validate != nil {
		if err := s.validate.Validate(in); err != nil {
			s.record(err, MsgSignup)
			return err
		}
	}
	return s.authenticate(ctx, "signup", MsgSignup, func() (*domain.AuthResponse, error) {
		return s.api.SignUp(ctx, in.Credentials())
	})
}

func (s *AuthStore) authenticate(ctx context.Context, op, fallback string, call func() (*domain.AuthResponse, error)) error {
	s.begin()
	resp, err := call()
	if err == nil && resp.AccessToken == "" {
		err = errors.Unauthorized("server returned no access token")
	}
	if err != nil {
		s.fail(err, fallback)
		s.logger.Warn(op+" failed", "error", err)
		return err
	}

	if err := s.slot.Set(resp.AccessToken); err != nil {
		s.fail(err, fallback)
		s.logger.Error("persist access token failed", "error", err)
		return errors.Wrap(err, errors.CodeInternal, "persist access token")
	}

	s.mu.Lock()
	s.pending--
	s.token = resp.AccessToken
	s.mu.Unlock()
	s.logger.Info(op + " succeeded")
	s.emit(events.AuthChanged, nil)

	s.FetchUser(ctx)
	return nil
}

// Logout clears the durable token and the in-memory session.
// No request is made.
func (s *AuthStore) Logout() {
	if err := s.slot.Delete(); err != nil {
		s.logger.Error("delete access token failed", "error", err)
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.err = ""
	s.mu.Unlock()
	s.emit(events.AuthChanged, nil)
}

// FetchUser refreshes the profile. Failures are logged and otherwise
// ignored: the user is left as it was.
func (s *AuthStore) FetchUser(ctx context.Context) {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()

	u, err := s.api.Me(ctx)

	s.mu.Lock()
	s.pending--
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("fetch user failed", "error", err)
		return
	}
	s.user = u
	s.mu.Unlock()
	s.emit(events.AuthChanged, nil)
}

// UpdateUser applies a partial profile change. The email is sent only when
// it differs from the current one; a change of letter case counts.
func (s *AuthStore) UpdateUser(ctx context.Context, in domain.UpdateUserInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	s.mu.RLock()
	if s.user != nil && in.Email == s.user.Email {
		in.Email = ""
	}
	s.mu.RUnlock()

	if s.validate != nil {
		if err := s.validate.Validate(in); err != nil {
			s.record(err, MsgUpdateUser)
			return nil, err
		}
	}

	s.begin()
	u, err := s.api.UpdateMe(ctx, in)
	if err != nil {
		s.fail(err, MsgUpdateUser)
		s.logger.Warn("update user failed", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.pending--
	s.user = u
	s.mu.Unlock()
	s.emit(events.AuthChanged, nil)
	return u, nil
}

// ClearError drops the recorded error.
func (s *AuthStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
	s.emit(events.ErrorChanged, nil)
}

func (s *AuthStore) begin() {
	s.mu.Lock()
	s.pending++
	s.err = ""
	s.mu.Unlock()
	s.emit(events.LoadingChanged, true)
}

func (s *AuthStore) fail(err error, fallback string) {
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
	s.record(err, fallback)
}

func (s *AuthStore) record(err error, fallback string) {
	s.mu.Lock()
	s.err = errors.UserMessage(err, fallback)
	s.mu.Unlock()
	s.emit(events.ErrorChanged, nil)
}
