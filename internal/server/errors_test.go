package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-tailor/internal/identity"
	"resume-tailor/internal/provider"
	"resume-tailor/internal/store"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "email", Message: "required"}, http.StatusBadRequest},
		{"provider not configured", &ErrProviderNotConfigured{}, http.StatusPreconditionRequired},
		{"not implemented", &ErrNotImplemented{Feature: "ATS scoring"}, http.StatusNotImplemented},
		{"provider transport", &ErrProviderTransport{Err: errors.New("connection refused")}, http.StatusBadGateway},
		{"rate limited", fmt.Errorf("openai: %w: too many", provider.ErrRateLimited), http.StatusTooManyRequests},
		{"rate limited inside transport", &ErrProviderTransport{Err: provider.ErrRateLimited}, http.StatusTooManyRequests},
		{"unknown provider", fmt.Errorf("%w: %q", provider.ErrUnknownProvider, "claude"), http.StatusBadRequest},
		{"unauthenticated", identity.ErrUnauthenticated, http.StatusUnauthorized},
		{"bad credentials", identity.ErrInvalidCredentials, http.StatusUnauthorized},
		{"duplicate user", identity.ErrUserExists, http.StatusConflict},
		{"weak password", fmt.Errorf("%w: too short", identity.ErrWeakPassword), http.StatusBadRequest},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"unknown error", errors.New("something odd"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
