// Package session owns the authenticated user and access token. It is the
// source of truth for auth-gated navigation and for the bearer token attached
// to API requests.
package session

import (
	"sync"
	"time"

	"echofm/logger"
	"echofm/model"
	"echofm/storage"

	"github.com/golang-jwt/jwt/v5"
)

// Store holds the session state. A user may exist without a token (signup
// does not log in); logout and auth failures clear both together.
type Store struct {
	mu    sync.RWMutex
	user  *model.User
	token string
	local *storage.Store
}

// NewStore creates a session store, restoring any persisted session. local
// may be nil (no persistence, used in tests).
func NewStore(local *storage.Store) *Store {
	s := &Store{local: local}
	if local != nil {
		user, token, err := local.LoadSession()
		if err != nil {
			logger.Warn("failed to restore session", logger.ErrorField(err))
		} else {
			s.user = user
			s.token = token
		}
	}
	return s
}

// Login installs the user and token together.
func (s *Store) Login(user model.User, token string) {
	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()
	s.persist()
}

// SetUser installs a user without a token (signup without auto-login).
func (s *Store) SetUser(user model.User) {
	s.mu.Lock()
	s.user = &user
	s.token = ""
	s.mu.Unlock()
	s.persist()
}

// Logout clears user and token together.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
	if s.local != nil {
		if err := s.local.ClearSession(); err != nil {
			logger.Warn("failed to clear persisted session", logger.ErrorField(err))
		}
	}
}

// User returns the current user, if any.
func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// Token returns the current access token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a session user exists.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsArtist reports whether the current user carries the artist flag.
func (s *Store) IsArtist() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsArtist
}

// TokenExpired reports whether the token carries an exp claim in the past.
// The signature is not verified; the backend stays authoritative. Opaque
// non-JWT tokens never expire locally.
func (s *Store) TokenExpired() bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func (s *Store) persist() {
	if s.local == nil {
		return
	}
	s.mu.RLock()
	user, token := s.user, s.token
	s.mu.RUnlock()
	if err := s.local.SaveSession(user, token); err != nil {
		logger.Warn("failed to persist session", logger.ErrorField(err))
	}
}
