// Package session owns the bearer credential: one persisted token that
// survives restarts, plus the fail-closed role derivation from its claims.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eazytourist/skyfare/pkg/domain"
)

// Store holds the single bearer credential for the application session.
// The token lives in a file so it survives restarts; an override (typically
// from the environment) takes precedence until Clear drops it. The store
// performs no validation — any non-empty string is accepted, and validity
// is only established when a backend rejects it.
type Store struct {
	path     string
	override string
}

// NewStore creates a store backed by the given file path. override, when
// non-empty, is served by Current ahead of the file.
func NewStore(path, override string) *Store {
	return &Store{path: path, override: strings.TrimSpace(override)}
}

// DefaultTokenPath returns ~/.skyfare/token.
func DefaultTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".skyfare", "token"), nil
}

// Set persists the credential for the lifetime of the session.
func (s *Store) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Clear erases the credential, both the override and the persisted file.
// Clearing an already-absent credential is not an error.
func (s *Store) Clear() error {
	s.override = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Current returns the active credential, or "" when absent.
func (s *Store) Current() string {
	if s.override != "" {
		return s.override
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// HasCredential reports whether a credential is present. Its presence is
// the sole authentication signal the rest of the application consumes.
func (s *Store) HasCredential() bool {
	return s.Current() != ""
}

// Role derives the role from the current credential. It is recomputed on
// every call rather than cached, so login, logout, and 401 recovery are
// reflected immediately.
func (s *Store) Role() domain.Role {
	return ResolveRole(s.Current())
}
