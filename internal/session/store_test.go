package session

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/eazytourist/skyfare/pkg/domain"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "token"), "")
}

func TestStoreSetAndCurrent(t *testing.T) {
	s := tempStore(t)

	if s.HasCredential() {
		t.Fatal("fresh store reports a credential")
	}
	if err := s.Set("tok-123"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := s.Current(); got != "tok-123" {
		t.Errorf("Current() = %q, want %q", got, "tok-123")
	}
	if !s.HasCredential() {
		t.Error("HasCredential() = false after Set")
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := NewStore(path, "").Set("persisted"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	// A second store over the same path models an application restart.
	reopened := NewStore(path, "")
	if got := reopened.Current(); got != "persisted" {
		t.Errorf("Current() after reopen = %q, want %q", got, "persisted")
	}
}

func TestStoreClear(t *testing.T) {
	s := tempStore(t)
	if err := s.Set("tok"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if s.HasCredential() {
		t.Error("HasCredential() = true after Clear")
	}
	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error: %v", err)
	}
}

func TestStoreOverridePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("from-file"), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path, "from-env")
	if got := s.Current(); got != "from-env" {
		t.Errorf("Current() = %q, want override %q", got, "from-env")
	}

	// Clear drops the override along with the file.
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if got := s.Current(); got != "" {
		t.Errorf("Current() after Clear = %q, want empty", got)
	}
}

func TestStoreRoleRecomputed(t *testing.T) {
	s := tempStore(t)
	if got := s.Role(); got != domain.RoleUser {
		t.Errorf("Role() with no credential = %v, want USER", got)
	}

	adminTok := "h." + base64.RawURLEncoding.EncodeToString([]byte(`{"role":"ADMIN"}`)) + ".s"
	if err := s.Set(adminTok); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := s.Role(); got != domain.RoleAdmin {
		t.Errorf("Role() = %v, want ADMIN", got)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if got := s.Role(); got != domain.RoleUser {
		t.Errorf("Role() after Clear = %v, want USER", got)
	}
}
