package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Makepad-fr/tada-lists/internal/log"
	"github.com/Makepad-fr/tada-lists/internal/store/jsonstore"
)

const credFileName = "credentials.json"

// Credentials is the on-disk form of a session.
type Credentials struct {
	Token     string     `json:"token"`
	Username  string     `json:"username"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // from the token's exp claim, when it has one
}

// Expired reports whether the token's expiry is known and in the past.
func (c *Credentials) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Store reads and writes credentials under a directory (usually ~/.tada).
type Store struct {
	dir         string
	envToken    string
	envUsername string
	now         func() time.Time
}

// NewStore returns a store rooted at dir. A non-empty envToken overrides the
// file on Load and is never written. Its username comes from the token's sub
// claim, or from envUsername when the token has none.
func NewStore(dir, envToken, envUsername string) *Store {
	return &Store{
		dir:         dir,
		envToken:    strings.TrimSpace(envToken),
		envUsername: strings.TrimSpace(envUsername),
		now:         time.Now,
	}
}

func (s *Store) path() string { return filepath.Join(s.dir, credFileName) }

// Load returns the saved credentials, or nil when signed out. An env token
// with no resolvable username is ignored and the file is used instead.
func (s *Store) Load() (*Credentials, error) {
	if c := s.fromEnv(); c != nil {
		return c, nil
	}

	var c Credentials
	found, err := jsonstore.Load(s.path(), &c)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if !found || strings.TrimSpace(c.Token) == "" {
		return nil, nil
	}
	if strings.TrimSpace(c.Username) == "" {
		log.Warn().Str("path", s.path()).Msg("credentials without username ignored")
		return nil, nil
	}
	c.Token = stripBearer(c.Token)
	return &c, nil
}

func (s *Store) fromEnv() *Credentials {
	if s.envToken == "" {
		return nil
	}
	token := stripBearer(s.envToken)
	c := &Credentials{Token: token, Username: s.envUsername, Source: "env"}
	claims, err := ParseClaims(token)
	if err == nil {
		if claims.Subject != "" {
			c.Username = claims.Subject
		}
		c.ExpiresAt = claims.ExpiresAt
	}
	if c.Username == "" {
		log.Warn().Err(err).Msg("TADA_TOKEN ignored: no sub claim and TADA_USERNAME unset")
		return nil
	}
	return c
}

// Save persists token and username with owner-only permissions.
func (s *Store) Save(token, username string) (*Credentials, error) {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	c := Credentials{
		Token:     token,
		Username:  username,
		Source:    "file",
		CreatedAt: s.now(),
	}
	if claims, err := ParseClaims(token); err == nil {
		c.ExpiresAt = claims.ExpiresAt
	}
	if err := jsonstore.Save(s.path(), c, 0o600); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}
	return &c, nil
}

// Delete removes the credentials file.
func (s *Store) Delete() error {
	return jsonstore.Remove(s.path())
}

// Restore loads saved credentials into sess. Expired tokens are dropped.
func (s *Store) Restore(sess *Session) (*Credentials, error) {
	c, err := s.Load()
	if err != nil || c == nil {
		return nil, err
	}
	if c.Expired(s.now()) {
		return nil, nil
	}
	if err := sess.Set(c.Token, c.Username); err != nil {
		return nil, err
	}
	return c, nil
}

// Claims are the token fields we can read without the signing key.
type Claims struct {
	Subject   string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// ErrOpaqueToken means the token is not a JWT.
var ErrOpaqueToken = errors.New("opaque token")

// ParseClaims decodes a JWT payload without verifying its signature. The
// server is the only verifier; this is for display and expiry hints.
func ParseClaims(token string) (*Claims, error) {
	if strings.Count(token, ".") != 2 {
		return nil, ErrOpaqueToken
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}
	c := &Claims{}
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		c.ExpiresAt = &t
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		c.IssuedAt = &t
	}
	return c, nil
}
