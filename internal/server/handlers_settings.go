package server

import (
	"errors"
	"net/http"

	"resume-tailor/internal/provider"
	"resume-tailor/internal/server/middleware"
	"resume-tailor/internal/store"
	"resume-tailor/internal/types"
)

// handleGetSettings returns the caller's provider settings with the API
// key always masked. Users with nothing stored see the default
// configuration so the settings screen has something to render.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.GetClaims(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	cfg, err := s.store.GetSettings(r.Context(), claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		s.jsonResponse(w, http.StatusOK, provider.DefaultConfig().Masked())
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, cfg.Masked())
}

// handleSaveSettings stores the caller's provider settings. The
// configuration must name a known provider and a non-blank key; the echo
// in the response is masked.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.GetClaims(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var cfg provider.Config
	if err := s.decodeJSON(r, &cfg); err != nil {
		s.writeError(w, err)
		return
	}
	if err := cfg.Validate(); err != nil {
		s.writeError(w, &ErrValidation{Message: err.Error()})
		return
	}

	if err := s.store.SaveSettings(r.Context(), claims.UserID, cfg); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, cfg.Masked())
}

// handleDeleteSettings removes the caller's provider settings.
func (s *Server) handleDeleteSettings(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.GetClaims(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := s.store.DeleteSettings(r.Context(), claims.UserID); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.MessageResponse{Message: "settings deleted"})
}

// handleProviders returns the static provider and model catalog.
func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"providers": provider.Catalog()})
}
