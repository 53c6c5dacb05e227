// Package server provides the HTTP REST API for the resume tailoring
// service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"resume-tailor/internal/identity"
	"resume-tailor/internal/provider"
	"resume-tailor/internal/store"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrProviderNotConfigured indicates the user has no usable provider
// settings yet. The client must save settings before calling AI endpoints.
type ErrProviderNotConfigured struct{}

func (e *ErrProviderNotConfigured) Error() string {
	return "AI provider not configured. Please add your API key in Settings."
}

// ErrNotImplemented indicates a feature that is intentionally stubbed.
type ErrNotImplemented struct {
	Feature string
}

func (e *ErrNotImplemented) Error() string {
	return fmt.Sprintf("%s is not implemented yet", e.Feature)
}

// ErrProviderTransport indicates the provider call itself failed.
type ErrProviderTransport struct {
	Provider string
	Err      error
}

func (e *ErrProviderTransport) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("provider request failed: %v", e.Err)
	}
	return fmt.Sprintf("provider %s request failed: %v", e.Provider, e.Err)
}

func (e *ErrProviderTransport) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Rate-limit classification takes precedence over the transport wrapper so
// a wrapped 429 surfaces as 429, not 502.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, provider.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, identity.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, identity.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, provider.ErrUnknownProvider):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	}

	var validation *ErrValidation
	var notConfigured *ErrProviderNotConfigured
	var notImplemented *ErrNotImplemented
	var transport *ErrProviderTransport
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notConfigured):
		return http.StatusPreconditionRequired
	case errors.As(err, &notImplemented):
		return http.StatusNotImplemented
	case errors.As(err, &transport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
