package server

import (
	"net/http"

	"resume-tailor/internal/server/middleware"
	"resume-tailor/internal/types"
)

// profileUserID resolves which user's profile a request addresses. A path
// user_id must match the authenticated user; there is no cross-user access.
func (s *Server) profileUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, err := middleware.GetClaims(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return "", false
	}
	if pathID := r.PathValue("user_id"); pathID != "" && pathID != claims.UserID {
		s.errorResponse(w, http.StatusForbidden, "cannot access another user's profile")
		return "", false
	}
	return claims.UserID, true
}

// handleSaveProfile upserts the caller's resume profile.
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.profileUserID(w, r)
	if !ok {
		return
	}

	var body struct {
		ProfileData types.ResumeData `json:"profileData"`
		TargetJD    string           `json:"targetJd"`
	}
	if err := s.decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	saved, err := s.store.SaveProfile(r.Context(), types.ResumeProfile{
		UserID:      userID,
		ProfileData: body.ProfileData,
		TargetJD:    body.TargetJD,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, saved)
}

// handleGetProfile returns the caller's stored resume profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.profileUserID(w, r)
	if !ok {
		return
	}

	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleDeleteProfile removes the caller's stored resume profile.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.profileUserID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteProfile(r.Context(), userID); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.MessageResponse{Message: "profile deleted"})
}
