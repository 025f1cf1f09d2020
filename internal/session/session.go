// Package session holds the signed-in user's token and username, and
// persists them between CLI invocations.
package session

import (
	"errors"
	"strings"
	"sync"
)

var (
	// ErrNotSignedIn is returned when an authenticated action runs without a token.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrIncomplete is returned by Set when token or username is missing.
	ErrIncomplete = errors.New("token and username are both required")
)

// Session is the current credential pair. Token and username are always set
// and cleared together. The zero value is an empty session.
type Session struct {
	mu       sync.RWMutex
	token    string
	username string
}

func New() *Session { return &Session{} }

// Set stores a token/username pair. A pair with either side empty is
// refused and leaves the session unchanged.
func (s *Session) Set(token, username string) error {
	token = stripBearer(strings.TrimSpace(token))
	username = strings.TrimSpace(username)
	if token == "" || username == "" {
		return ErrIncomplete
	}
	s.mu.Lock()
	s.token, s.username = token, username
	s.mu.Unlock()
	return nil
}

// Clear empties the session.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token, s.username = "", ""
	s.mu.Unlock()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Credentials returns token and username, or ErrNotSignedIn.
func (s *Session) Credentials() (token, username string, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.username == "" {
		return "", "", ErrNotSignedIn
	}
	return s.token, s.username, nil
}

func (s *Session) Authenticated() bool {
	_, _, err := s.Credentials()
	return err == nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
