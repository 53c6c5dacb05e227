package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/chat"
	"resume-tailor/internal/identity"
	"resume-tailor/internal/provider"
	"resume-tailor/internal/server/middleware"
	"resume-tailor/internal/store"
	"resume-tailor/internal/tailor"
)

func newTestServer() *Server {
	mem := store.NewMemory()
	return &Server{
		store:        mem,
		orchestrator: tailor.New(),
		chatService:  chat.NewService(mem),
		validate:     validator.New(),
	}
}

// authedRequest builds a request with claims already in context, as the
// auth middleware would leave it.
func authedRequest(method, target, body, userID string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	claims := &identity.Claims{UserID: userID, Email: userID + "@example.com", Role: "authenticated"}
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetSettings_DefaultWhenNothingStored(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()

	s.handleGetSettings(rec, authedRequest(http.MethodGet, "/api/ai/settings", "", "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "gemini", body["provider"])
	assert.Empty(t, body["api_key"], "default settings carry no key")
}

func TestSaveSettings_RejectsBlankKey(t *testing.T) {
	s := newTestServer()

	for _, key := range []string{"", "   "} {
		rec := httptest.NewRecorder()
		payload := `{"provider": "openai", "api_key": "` + key + `"}`
		s.handleSaveSettings(rec, authedRequest(http.MethodPost, "/api/ai/settings", payload, "user-1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	// Nothing was stored by the rejected saves.
	rec := httptest.NewRecorder()
	s.handleGetSettings(rec, authedRequest(http.MethodGet, "/api/ai/settings", "", "user-1"))
	assert.Equal(t, "gemini", decodeBody(t, rec)["provider"])
}

func TestSaveSettings_RejectsUnknownProvider(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	payload := `{"provider": "anthropic", "api_key": "sk-test"}`

	s.handleSaveSettings(rec, authedRequest(http.MethodPost, "/api/ai/settings", payload, "user-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings_RoundTripMasksKey(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	payload := `{"provider": "openai", "api_key": "sk-secret", "model": "gpt-4o-mini"}`
	s.handleSaveSettings(rec, authedRequest(http.MethodPost, "/api/ai/settings", payload, "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["api_key"], "save echo is masked")

	rec = httptest.NewRecorder()
	s.handleGetSettings(rec, authedRequest(http.MethodGet, "/api/ai/settings", "", "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "openai", body["provider"])
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Empty(t, body["api_key"], "stored key never echoes")

	// The store still holds the real key for request use.
	cfg, err := s.store.GetSettings(authedRequest(http.MethodGet, "/", "", "user-1").Context(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "sk-secret", cfg.APIKey)
}

func TestAIEndpoints_RequireConfiguredProvider(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	payload := `{"profileData": {}, "jobDescription": "Go engineer"}`

	s.handleTailorResume(rec, authedRequest(http.MethodPost, "/api/ai/tailor-resume", payload, "user-1"))

	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "not configured")
}

func TestBatchTailor_OversizedBatchRejected(t *testing.T) {
	s := newTestServer()
	require.NoError(t, s.store.SaveSettings(
		authedRequest(http.MethodGet, "/", "", "user-1").Context(),
		"user-1",
		provider.Config{Provider: provider.KindOpenAI, APIKey: "sk-test"},
	))

	one := `{"profileData": {}, "jobDescription": "Go engineer"}`
	reqs := make([]string, 6)
	for i := range reqs {
		reqs[i] = one
	}
	payload := `{"requests": [` + strings.Join(reqs, ",") + `]}`

	rec := httptest.NewRecorder()
	s.handleBatchTailor(rec, authedRequest(http.MethodPost, "/api/ai/batch-tailor", payload, "user-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotImplementedEndpoints(t *testing.T) {
	s := newTestServer()
	handler := s.handleNotImplemented("ATS scoring")

	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodPost, "/api/ai/ats-score", "{}", "user-1"))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "not implemented")
}

func TestProfile_RoundTrip(t *testing.T) {
	s := newTestServer()

	payload := `{"profileData": {"personalInfo": {"fullName": "Jane Doe"}}, "targetJd": "Go role"}`
	rec := httptest.NewRecorder()
	s.handleSaveProfile(rec, authedRequest(http.MethodPost, "/api/profile", payload, "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.handleGetProfile(rec, authedRequest(http.MethodGet, "/api/profile", "", "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Go role", body["targetJd"])

	rec = httptest.NewRecorder()
	s.handleDeleteProfile(rec, authedRequest(http.MethodDelete, "/api/profile", "", "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.handleGetProfile(rec, authedRequest(http.MethodGet, "/api/profile", "", "user-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile_CrossUserAccessForbidden(t *testing.T) {
	s := newTestServer()

	r := authedRequest(http.MethodGet, "/api/profile/user-2", "", "user-1")
	r.SetPathValue("user_id", "user-2")
	rec := httptest.NewRecorder()
	s.handleGetProfile(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProviders_Catalog(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.handleProviders(rec, httptest.NewRequest(http.MethodGet, "/api/ai/providers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	providers, ok := body["providers"].([]any)
	require.True(t, ok)
	assert.Len(t, providers, 3)
}

func TestChatHistory_EmptyAndDelete(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.handleChatHistory(rec, authedRequest(http.MethodGet, "/api/chat/history", "", "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	r := authedRequest(http.MethodDelete, "/api/chat/history/sess-1", "", "user-1")
	r.SetPathValue("session_id", "sess-1")
	rec = httptest.NewRecorder()
	s.handleDeleteChatHistory(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDecodeJSON_Validation(t *testing.T) {
	s := newTestServer()

	var req struct {
		JobDescription string `json:"jobDescription" validate:"required"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"jobDescription": ""}`))
	err := s.decodeJSON(r, &req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	err = s.decodeJSON(r, &req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}
