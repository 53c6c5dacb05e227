package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestVerify_UpstreamPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		require.Equal(t, "Bearer some-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "user-123", "email": "jane@example.com"}`)
	}))
	defer srv.Close()

	v := NewVerifier(NewClient(srv.URL, "anon-key"))
	claims, err := v.Verify(context.Background(), "some-token")
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "authenticated", claims.Role)
}

func TestVerify_FallsBackToLocalDecodeWhenUpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // force connection errors

	token := signedToken(t, jwt.MapClaims{
		"sub":   "user-456",
		"email": "jane@example.com",
		"role":  "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	v := NewVerifier(NewClient(srv.URL, "anon-key"))
	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-456", claims.UserID)
	assert.NotZero(t, claims.ExpiresAt)
}

func TestVerify_FallbackRejectsExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	token := signedToken(t, jwt.MapClaims{
		"sub": "user-456",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	v := NewVerifier(NewClient(srv.URL, "anon-key"))
	_, err := v.Verify(context.Background(), token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerify_FallbackAcceptsTokenWithoutExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	token := signedToken(t, jwt.MapClaims{
		"sub":   "user-789",
		"email": "jane@example.com",
		"role":  "authenticated",
	})

	v := NewVerifier(NewClient(srv.URL, "anon-key"))
	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-789", claims.UserID)
	assert.Zero(t, claims.ExpiresAt)
}

func TestVerify_EmptyToken(t *testing.T) {
	v := NewVerifier(NewClient("http://localhost:1", "anon-key"))
	_, err := v.Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestDecodeUnverified(t *testing.T) {
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"sub":   "user-1",
			"email": "a@b.c",
			"role":  "service_role",
			"exp":   now.Add(time.Hour).Unix(),
		})
		claims, err := decodeUnverified(token, now)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "service_role", claims.Role)
	})

	t.Run("role defaults to authenticated", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"sub": "user-1",
			"exp": now.Add(time.Hour).Unix(),
		})
		claims, err := decodeUnverified(token, now)
		require.NoError(t, err)
		assert.Equal(t, "authenticated", claims.Role)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
		_, err := decodeUnverified(token, now)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("missing expiry accepted", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "user-1"})
		claims, err := decodeUnverified(token, now)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Zero(t, claims.ExpiresAt)
	})

	t.Run("expired", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"sub": "user-1",
			"exp": now.Add(-time.Second).Unix(),
		})
		_, err := decodeUnverified(token, now)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := decodeUnverified("not.a.token", now)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}
