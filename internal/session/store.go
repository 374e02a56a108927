package session

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Store is the process-wide authority over the session. It holds the
// invariant that authenticated == (user != nil && token != ""): Complete sets
// user and token together, and every path that clears one clears both.
//
// Every mutation is mirrored synchronously to the persister so a later
// process can rehydrate the authenticated subset.
type Store struct {
	mu      sync.RWMutex
	persist Persister

	user          *User
	token         string
	authenticated bool
	loading       bool
	lastError     string
}

// NewStore hydrates a store from the persister. Loading and error state
// always start cleared; a missing, corrupt, or half-written snapshot is
// treated as logged out.
func NewStore(p Persister) *Store {
	s := &Store{persist: p}
	if p == nil {
		return s
	}

	st, err := p.Load()
	if err != nil {
		log.Warn().Err(err).Msg("discarding unreadable session snapshot")
		return s
	}
	if st == nil || st.User == nil || st.Token == "" {
		return s
	}

	s.user = st.User
	s.token = st.Token
	s.authenticated = true

	log.Debug().Str("user", st.User.Email).Msg("session rehydrated")

	return s
}

// Begin marks an operation as in flight and clears any previous error.
func (s *Store) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.lastError = ""
	s.saveLocked()
}

// Complete records a successful login, registration, or refresh. User and
// token are set in the same critical section; no reader ever observes one
// without the other.
func (s *Store) Complete(user *User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.authenticated = true
	s.loading = false
	s.lastError = ""
	s.saveLocked()
}

// Fail records a failed login or registration. Any prior session stays
// intact; the caller may simply try again.
func (s *Store) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastError = message
	s.saveLocked()
}

// FailRefresh records a failed refresh. Unlike Fail, this forces a full
// logout: a session whose token can no longer be renewed cannot be trusted.
func (s *Store) FailRefresh(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.authenticated = false
	s.loading = false
	s.lastError = message
	s.saveLocked()
}

// Logout clears the whole session. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.authenticated = false
	s.loading = false
	s.lastError = ""
	s.saveLocked()
}

// ClearError clears the last operation error only.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
	s.saveLocked()
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a user and token are both present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// IsLoading reports whether a session operation is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the message of the last failed operation, or "".
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *Store) saveLocked() {
	if s.persist == nil {
		return
	}
	st := &State{
		User:          s.user,
		Token:         s.token,
		Authenticated: s.authenticated,
	}
	if err := s.persist.Save(st); err != nil {
		log.Error().Err(err).Msg("failed to persist session")
	}
}
