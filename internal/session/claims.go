package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eazytourist/skyfare/pkg/domain"
)

// Claims is the decoded payload segment of a bearer token.
type Claims struct {
	Role      string `json:"role"`
	Subject   string `json:"sub"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"exp"`
}

// DecodeClaims extracts the claims segment from a bearer token. The token
// must have the three-part dotted structure with a base64 payload in the
// middle; both the URL-safe and standard alphabets are accepted, padded or
// not. Any structural problem is reported as an error, never a panic.
func DecodeClaims(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("token has %d segments, want 3", len(parts))
	}
	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode claims segment: %w", err)
	}
	var c Claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	return &c, nil
}

func decodeSegment(seg string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.StdEncoding,
	} {
		if data, err := enc.DecodeString(seg); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("not base64")
}

// ResolveRole derives a role from a bearer token. An absent token, a
// malformed structure, an undecodable payload, or a missing/unknown role
// claim all yield RoleUser. The result only hides controls in this client;
// the backends enforce the real authorization on every call.
func ResolveRole(token string) domain.Role {
	if token == "" {
		return domain.RoleUser
	}
	claims, err := DecodeClaims(token)
	if err != nil {
		return domain.RoleUser
	}
	return domain.ParseRole(claims.Role)
}
