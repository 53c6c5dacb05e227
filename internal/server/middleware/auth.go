// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resume-tailor/internal/identity"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// claimsKey is the context key for the authenticated user's claims.
const claimsKey ContextKey = "claims"

// TokenVerifier resolves a bearer token to the user it belongs to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*identity.Claims, error)
}

// Auth returns middleware that verifies bearer tokens and attaches the
// resulting claims to the request context. Rejections carry a Bearer
// challenge header.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the bearer token from the Authorization header.
// The "Bearer" prefix is matched case-insensitively; missing or malformed
// headers yield an empty string.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// GetClaims extracts the authenticated user's claims from the request
// context.
func GetClaims(r *http.Request) (*identity.Claims, error) {
	claims, ok := r.Context().Value(claimsKey).(*identity.Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("claims not found in request context")
	}
	return claims, nil
}

// WithClaims returns a context carrying claims (for testing purposes).
func WithClaims(ctx context.Context, claims *identity.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
