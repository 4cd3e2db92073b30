// Package auth persists the bearer token between runs and exposes it to the
// API client. The client never validates signatures (the secret lives on the
// server); it only reads the exp claim to warn before firing doomed requests.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoToken = errors.New("no stored token")

// Store holds the session token with an explicit lifecycle: Load on startup,
// Save on login, Clear on logout. Reads are safe from any goroutine.
type Store struct {
	path string

	mu    sync.RWMutex
	token string
}

// NewStore uses path for persistence; empty path defaults to
// $XDG_CONFIG_HOME/matcha/token (or the os equivalent).
func NewStore(path string) (*Store, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "matcha", "token")
	}
	return &Store{path: path}, nil
}

// Load reads the persisted token, if any. A missing file is not an error;
// the store just stays empty and requests go out unauthenticated.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	s.mu.Lock()
	s.token = strings.TrimSpace(string(data))
	s.mu.Unlock()
	return nil
}

// Save stores the token in memory and on disk, 0600 since it is a credential.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Clear wipes the token in memory and on disk (logout).
func (s *Store) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Token returns the current token. Empty string means not logged in.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ExpiresAt parses the stored token without verifying it and returns its
// expiry. Tokens without an exp claim report ok=false.
func (s *Store) ExpiresAt() (time.Time, bool, error) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false, ErrNoToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, fmt.Errorf("parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false, nil
	}
	return exp.Time, true, nil
}

// Expired reports whether the stored token carries an exp claim in the past.
// A malformed or claim-less token counts as not expired: the server is the
// authority and will reject it if it must.
func (s *Store) Expired(now time.Time) bool {
	exp, ok, err := s.ExpiresAt()
	if err != nil || !ok {
		return false
	}
	return exp.Before(now)
}
