package provider

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownProvider indicates a stored configuration names a provider
	// kind this build does not support. It is a configuration error, not a
	// runtime fault, and is raised before any network call.
	ErrUnknownProvider = errors.New("unsupported AI provider")

	// ErrRateLimited indicates the backend rejected the call for quota or
	// rate-limit reasons. Callers surface it distinctly so the client can
	// back off instead of treating it as a hard failure.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// classifyErr reclassifies upstream errors whose message indicates HTTP 429,
// quota exhaustion, or an explicit rate-limit phrase into ErrRateLimited.
// Everything else passes through wrapped with the provider name.
func classifyErr(provider string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(msg, "429") || strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit") {
		return fmt.Errorf("%s: %w: %s", provider, ErrRateLimited, msg)
	}
	return fmt.Errorf("%s: %w", provider, err)
}
