package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	resp := map[string]any{
		"id":    "chatcmpl-1",
		"model": "test-model",
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestChatWire_Complete(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, completionBody("  hello world  "))
	}))
	defer srv.Close()

	w := newChatWire("openai", srv.URL, "sk-test", "test-model", nil)
	got, err := w.complete(context.Background(), "be terse", "say hello", true)
	require.NoError(t, err)

	assert.Equal(t, "hello world", got, "reply is trimmed")
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, "json_object", gotReq.ResponseFormat.Type)
}

func TestChatWire_ExtraHeaders(t *testing.T) {
	var gotTitle, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("X-Title")
		gotReferer = r.Header.Get("HTTP-Referer")
		fmt.Fprint(w, completionBody("ok"))
	}))
	defer srv.Close()

	headers := map[string]string{"X-Title": "Resumyx", "HTTP-Referer": "https://example.com"}
	w := newChatWire("openrouter", srv.URL, "sk-test", "test-model", headers)
	_, err := w.complete(context.Background(), "", "hi", false)
	require.NoError(t, err)
	assert.Equal(t, "Resumyx", gotTitle)
	assert.Equal(t, "https://example.com", gotReferer)
}

func TestChatWire_RateLimitStatusClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "slow down"}}`)
	}))
	defer srv.Close()

	w := newChatWire("openai", srv.URL, "sk-test", "test-model", nil)
	_, err := w.complete(context.Background(), "", "hi", false)
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestChatWire_QuotaMessageClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"error": {"message": "You exceeded your current quota", "type": "insufficient_quota"}}`)
	}))
	defer srv.Close()

	w := newChatWire("openai", srv.URL, "sk-test", "test-model", nil)
	_, err := w.complete(context.Background(), "", "hi", false)
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestChatWire_ServerErrorNotRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	}))
	defer srv.Close()

	w := newChatWire("openai", srv.URL, "sk-test", "test-model", nil)
	_, err := w.complete(context.Background(), "", "hi", false)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))
}

func TestChatWire_EmptyChoicesRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id": "x", "choices": []}`)
	}))
	defer srv.Close()

	w := newChatWire("openai", srv.URL, "sk-test", "test-model", nil)
	_, err := w.complete(context.Background(), "", "hi", false)
	require.Error(t, err)
}

func TestChatWire_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, ": keep-alive comment\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	w := newChatWire("openai", srv.URL, "sk-test", "test-model", nil)
	var tokens []string
	err := w.stream(context.Background(), "system", "hi", func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, tokens)
}

func TestChatWire_StreamCallbackErrorStops(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	stop := errors.New("client went away")
	w := newChatWire("openai", srv.URL, "sk-test", "test-model", nil)
	err := w.stream(context.Background(), "", "hi", func(string) error { return stop })
	require.ErrorIs(t, err, stop)
}

func TestChatWire_StreamMidFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"error\":{\"message\":\"rate limit reached\"}}\n\n")
	}))
	defer srv.Close()

	w := newChatWire("openai", srv.URL, "sk-test", "test-model", nil)
	var tokens []string
	err := w.stream(context.Background(), "", "hi", func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, []string{"partial"}, tokens)
}
