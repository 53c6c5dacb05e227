package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		rateLimited bool
	}{
		{"http 429", errors.New("status 429: too many requests"), true},
		{"quota lower", errors.New("insufficient quota for this request"), true},
		{"quota upper", errors.New("QUOTA exceeded"), true},
		{"rate limit phrase", errors.New("Rate Limit reached for model"), true},
		{"resource exhausted", errors.New("googleapi: Error 429: Resource has been exhausted"), true},
		{"plain failure", errors.New("connection refused"), false},
		{"server error", errors.New("status 500: internal error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyErr("openai", tt.err)
			require.Error(t, got)
			assert.Equal(t, tt.rateLimited, errors.Is(got, ErrRateLimited))
			// The original message must survive for diagnostics.
			assert.Contains(t, got.Error(), tt.err.Error())
		})
	}
}

func TestClassifyErrNil(t *testing.T) {
	assert.NoError(t, classifyErr("openai", nil))
}
