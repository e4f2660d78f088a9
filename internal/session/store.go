// Package session holds the process-wide authentication state.
//
// The Store is the single source of truth for "who is logged in". Callers
// read it through Snapshot or Subscribe and change it only through Login,
// Logout and CheckSession. IsAuthenticated and CurrentUser always change
// together; while a call is in flight State reports StateAuthenticating and
// Snapshot keeps returning the previous pair.
//
// Operations are not serialized. Two concurrent Login calls both reach the
// backend and the last response to resolve wins.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smolensk-traffic/portal/internal/apiclient"
	"github.com/smolensk-traffic/portal/internal/authsvc"
	"github.com/smolensk-traffic/portal/internal/models"
	"github.com/smolensk-traffic/portal/internal/tokenstore"
)

// State is the lifecycle state of the session
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is an immutable view of the store
type Session struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	CurrentUser     *models.User `json:"currentUser,omitempty"`
}

// Authenticator is the remote side of the session lifecycle
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*authsvc.AuthResponse, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (*models.User, error)
}

// Store is the observable session state
type Store struct {
	auth   Authenticator
	tokens tokenstore.Store
	log    zerolog.Logger

	mu            sync.Mutex
	authenticated bool
	user          *models.User
	inFlight      int
	observers     map[int]func(Session)
	nextObserver  int

	reconcileMu  sync.Mutex
	reconciled   bool
	reconcileErr error
}

// New creates an anonymous store
func New(auth Authenticator, tokens tokenstore.Store, log zerolog.Logger) *Store {
	return &Store{
		auth:      auth,
		tokens:    tokens,
		log:       log,
		observers: make(map[int]func(Session)),
	}
}

// Snapshot returns the current session
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// State returns the lifecycle state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.inFlight > 0:
		return StateAuthenticating
	case s.authenticated:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

// Subscribe registers fn to be called after every state change.
// The returned function removes the observer.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Login authenticates with email and password. On success the token is
// persisted and the session becomes authenticated. On failure the session is
// left as it was and the typed error is returned.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.begin()

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("Login failed")
		s.end()
		return err
	}

	if err := s.tokens.Save(resp.AccessToken); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist token")
		s.end()
		return fmt.Errorf("failed to save authentication token: %w", err)
	}

	user := resp.Admin
	s.commit(true, user)
	s.log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("Logged in")
	return nil
}

// Logout ends the session. Local state is cleared even when the remote call
// fails; the remote error is still returned. With no token and no session
// there is nothing to invalidate and no request is sent.
func (s *Store) Logout(ctx context.Context) error {
	token, err := tokenstore.Lookup(s.tokens)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read token before logout")
	}
	// an unreadable token may still be valid, so it is deleted below
	if err == nil && token == "" && !s.Snapshot().IsAuthenticated {
		s.set(false, nil)
		return nil
	}

	s.begin()

	remoteErr := s.auth.Logout(ctx)
	if remoteErr != nil {
		s.log.Warn().Err(remoteErr).Msg("Remote logout failed, clearing local session anyway")
	}

	if err := s.tokens.Delete(); err != nil {
		s.log.Error().Err(err).Msg("Failed to delete token")
		s.commit(false, nil)
		return fmt.Errorf("failed to delete authentication token: %w", err)
	}

	s.commit(false, nil)

	if remoteErr != nil {
		return fmt.Errorf("remote logout failed: %w", remoteErr)
	}
	return nil
}

// CheckSession reconciles the persisted token with the in-memory session.
// A valid token makes the session authenticated; a token the server rejects
// is deleted and the session reset. Transport failures leave state unchanged.
func (s *Store) CheckSession(ctx context.Context) error {
	token, err := tokenstore.Lookup(s.tokens)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read token")
		return err
	}
	if token == "" {
		s.set(false, nil)
		return nil
	}

	s.begin()

	user, err := s.auth.Refresh(ctx)
	if err != nil {
		if apiclient.IsRejected(err) {
			s.log.Info().Err(err).Msg("Stored token rejected, clearing session")
			if delErr := s.tokens.Delete(); delErr != nil {
				s.log.Error().Err(delErr).Msg("Failed to delete rejected token")
			}
			s.commit(false, nil)
			return err
		}
		s.log.Warn().Err(err).Msg("Session check failed")
		s.end()
		return err
	}

	s.commit(true, user)
	return nil
}

// Reconcile runs CheckSession until it settles and then returns the settled
// result on every call. Success and rejection settle; transport and token
// storage failures leave the store unreconciled so the next call retries.
func (s *Store) Reconcile(ctx context.Context) error {
	s.reconcileMu.Lock()
	defer s.reconcileMu.Unlock()

	if s.reconciled {
		return s.reconcileErr
	}

	err := s.CheckSession(ctx)
	if err != nil && !apiclient.IsRejected(err) {
		return err
	}
	s.reconciled = true
	s.reconcileErr = err
	return err
}

func (s *Store) snapshotLocked() Session {
	sess := Session{IsAuthenticated: s.authenticated}
	if s.user != nil {
		u := *s.user
		sess.CurrentUser = &u
	}
	return sess
}

func (s *Store) begin() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
}

// end finishes an in-flight call without changing the session
func (s *Store) end() {
	s.mu.Lock()
	if s.inFlight > 0 {
		s.inFlight--
	}
	s.mu.Unlock()
}

// commit finishes an in-flight call and applies its outcome
func (s *Store) commit(authenticated bool, user *models.User) {
	s.apply(true, authenticated, user)
}

// set applies an outcome that needed no remote call
func (s *Store) set(authenticated bool, user *models.User) {
	s.apply(false, authenticated, user)
}

// apply sets both fields in one step and notifies observers
func (s *Store) apply(finished, authenticated bool, user *models.User) {
	s.mu.Lock()
	if finished && s.inFlight > 0 {
		s.inFlight--
	}
	s.authenticated = authenticated && user != nil
	if s.authenticated {
		s.user = user
	} else {
		s.user = nil
	}
	sess := s.snapshotLocked()
	observers := make([]func(Session), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(sess)
	}
}
