// Package identity talks to the upstream identity provider (a Supabase
// GoTrue compatible API) and verifies access tokens for request auth.
// Passwords and sessions are owned upstream; this package never stores
// credentials.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors for the upstream failure modes callers branch on.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrUnauthenticated    = errors.New("invalid or expired token")
)

// Session is an upstream-issued token pair.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

// User is the upstream user record subset we care about.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Client is an HTTP client for the identity provider's auth API.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewClient creates an identity client. baseURL is the project root URL,
// without the /auth/v1 suffix.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SignUp registers a new user. Depending on upstream settings the response
// may carry a session (auto-confirm) or just the user pending confirmation.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", c.anonKey, body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.anonKey, body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RefreshSession exchanges a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", c.anonKey, body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revokes the session behind the given access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// GetUser fetches the user behind an access token. A non-2xx response means
// the token is not (or no longer) valid upstream.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword sets a new password for the user behind the access token.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	body := map[string]string{"password": newPassword}
	return c.do(ctx, http.MethodPut, "/auth/v1/user", accessToken, body, nil)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read identity provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapUpstreamError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse identity provider response: %w", err)
		}
	}
	return nil
}

// upstreamError is the error envelope GoTrue uses; the field name has
// shifted across versions, so all three are tried.
type upstreamError struct {
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e *upstreamError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message} {
		if s != "" {
			return s
		}
	}
	return ""
}

// mapUpstreamError translates the provider's message strings into the
// sentinel errors callers expect. Unrecognized failures pass through with
// the upstream text attached.
func mapUpstreamError(status int, body []byte) error {
	var ue upstreamError
	_ = json.Unmarshal(body, &ue)
	msg := ue.text()

	switch {
	case strings.Contains(msg, "User already registered"):
		return ErrUserExists
	case strings.Contains(msg, "Invalid login credentials"):
		return ErrInvalidCredentials
	case strings.Contains(msg, "Password should be at least"):
		return fmt.Errorf("%w: %s", ErrWeakPassword, msg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrUnauthenticated, msg)
		}
		return ErrUnauthenticated
	}

	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("identity provider error (%d): %s", status, msg)
}
