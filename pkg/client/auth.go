package client

import (
	"context"
	"fmt"
	"time"

	"github.com/eazytourist/skyfare/pkg/domain"
)

// Auth is the gateway client for the user/auth service.
type Auth struct {
	t *transport
}

// NewAuth creates an auth client against the given base URL.
func NewAuth(baseURL string, tokens TokenSource, timeout time.Duration) *Auth {
	return &Auth{t: newTransport(baseURL, tokens, timeout)}
}

// RegisterRequest is the payload for self-service registration. Role is
// optional; the server defaults it to USER.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Register creates a new account.
func (c *Auth) Register(ctx context.Context, req RegisterRequest) (*domain.Account, error) {
	var acct domain.Account
	if err := c.t.post(ctx, "/users/register", req, &acct); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &acct, nil
}

// Login exchanges credentials for a bearer token. Storing the token is the
// caller's business; the client itself stays stateless.
func (c *Auth) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.t.post(ctx, "/users/login", body, &resp); err != nil {
		return "", fmt.Errorf("client.Login: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("client.Login: empty token in response")
	}
	return resp.Token, nil
}

// CreateAccountRequest is the payload for privileged account creation.
type CreateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateInternalAccount creates an AIRLINE or ADMIN account. The endpoint
// is restricted server-side to ADMIN callers.
func (c *Auth) CreateInternalAccount(ctx context.Context, req CreateAccountRequest) error {
	if err := c.t.post(ctx, "/users/internal/create", req, nil); err != nil {
		return fmt.Errorf("client.CreateInternalAccount: %w", err)
	}
	return nil
}
