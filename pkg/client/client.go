// Package client holds the gateway clients for the three backend
// services: auth, flights, and bookings. They share one transport
// contract: JSON in and out, the current bearer credential attached when
// present, and non-2xx responses surfaced as *HTTPError with the server's
// message preserved.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TokenSource supplies the current bearer credential on demand. An empty
// string means no credential: the request goes out unauthenticated and the
// server decides. Reading at request time (rather than at construction)
// means login, logout, and 401 recovery take effect immediately on all
// three clients.
type TokenSource func() string

// transport is the request machinery shared by the gateway clients.
type transport struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

func newTransport(baseURL string, tokens TokenSource, timeout time.Duration) *transport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if tokens == nil {
		tokens = func() string { return "" }
	}
	return &transport{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (t *transport) get(ctx context.Context, path string, out any) error {
	return t.do(ctx, http.MethodGet, path, nil, out, nil)
}

func (t *transport) post(ctx context.Context, path string, body, out any) error {
	return t.do(ctx, http.MethodPost, path, body, out, nil)
}

func (t *transport) do(ctx context.Context, method, path string, body, out any, hdr map[string]string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := t.tokens(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		return newHTTPError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// doText is do for endpoints that answer with a plain-text body
// (flight deletion and the payment call).
func (t *transport) doText(ctx context.Context, method, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if tok := t.tokens(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		return "", newHTTPError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(data), nil
}

// newHTTPError builds an HTTPError from a non-2xx response, preferring the
// structured message the backends put in the body over the raw bytes.
func newHTTPError(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil {
		if apiErr.Message != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
		}
		if apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
}
