package session

import (
	"encoding/base64"
	"testing"

	"github.com/eazytourist/skyfare/pkg/domain"
)

// token builds a structurally valid bearer token around the given payload
// bytes. Header and signature segments are ignored by the decoder.
func token(payload []byte) string {
	return "hdr." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  domain.Role
	}{
		{"empty token", "", domain.RoleUser},
		{"not a jwt", "just-an-opaque-string", domain.RoleUser},
		{"two segments", "abc.def", domain.RoleUser},
		{"four segments", "a.b.c.d", domain.RoleUser},
		{"payload not base64", "hdr.!!!!.sig", domain.RoleUser},
		{"payload not json", token([]byte("not json")), domain.RoleUser},
		{"missing role claim", token([]byte(`{"sub":"a@b.c"}`)), domain.RoleUser},
		{"unknown role claim", token([]byte(`{"role":"WIZARD"}`)), domain.RoleUser},
		{"user role", token([]byte(`{"role":"USER"}`)), domain.RoleUser},
		{"airline role", token([]byte(`{"role":"AIRLINE"}`)), domain.RoleAirline},
		{"admin role", token([]byte(`{"role":"ADMIN"}`)), domain.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRole(tt.token); got != tt.want {
				t.Errorf("ResolveRole(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestResolveRoleNeverElevates(t *testing.T) {
	// Every malformed variation of an admin token must collapse to USER.
	admin := token([]byte(`{"role":"ADMIN"}`))
	malformed := []string{
		admin + ".extra",
		"hdr." + admin,
		admin[:len(admin)-5],
		"",
	}
	for _, tok := range malformed {
		if got := ResolveRole(tok); got == domain.RoleAdmin {
			t.Errorf("ResolveRole(%q) = ADMIN, want a non-elevated role", tok)
		}
	}
}

func TestDecodeClaimsAlphabets(t *testing.T) {
	payload := []byte(`{"role":"ADMIN","email":"ops@example.com","exp":1767225600}`)
	encodings := map[string]*base64.Encoding{
		"raw url":    base64.RawURLEncoding,
		"padded url": base64.URLEncoding,
		"raw std":    base64.RawStdEncoding,
		"padded std": base64.StdEncoding,
	}

	for name, enc := range encodings {
		t.Run(name, func(t *testing.T) {
			tok := "hdr." + enc.EncodeToString(payload) + ".sig"
			claims, err := DecodeClaims(tok)
			if err != nil {
				t.Fatalf("DecodeClaims() error: %v", err)
			}
			if claims.Role != "ADMIN" {
				t.Errorf("claims.Role = %q, want %q", claims.Role, "ADMIN")
			}
			if claims.Email != "ops@example.com" {
				t.Errorf("claims.Email = %q, want %q", claims.Email, "ops@example.com")
			}
			if claims.ExpiresAt != 1767225600 {
				t.Errorf("claims.ExpiresAt = %d, want 1767225600", claims.ExpiresAt)
			}
		})
	}
}

func TestDecodeClaimsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "abc"},
		{"bad base64", "a.%%%.c"},
		{"bad json", token([]byte("{"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeClaims(tt.token); err == nil {
				t.Errorf("DecodeClaims(%q) = nil error, want error", tt.token)
			}
		})
	}
}
