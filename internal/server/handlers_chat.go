package server

import (
	"net/http"
	"strconv"

	"resume-tailor/internal/server/middleware"
	"resume-tailor/internal/types"
)

// handleChatCompletions streams an assistant reply over SSE. The stream is
// data-only frames: zero or more chunks, then exactly one terminal frame.
// Failures before the stream opens are plain JSON errors; failures after
// arrive as the terminal error frame, since the 200 header is gone by then.
func (s *Server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	client, userID, ok := s.aiClient(w, r)
	if !ok {
		return
	}

	var req types.ChatRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.chatService.Stream(r.Context(), client, userID, req, sse)
}

// handleChatHistory lists the caller's chat messages, optionally scoped to
// the session in the path.
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.GetClaims(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	history, err := s.chatService.History(r.Context(), claims.UserID, r.PathValue("session_id"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, history)
}

// handleDeleteChatHistory removes one of the caller's chat sessions.
func (s *Server) handleDeleteChatHistory(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.GetClaims(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	sessionID := r.PathValue("session_id")
	if sessionID == "" {
		s.writeError(w, &ErrValidation{Field: "session_id", Message: "session id is required"})
		return
	}

	if err := s.chatService.DeleteHistory(r.Context(), claims.UserID, sessionID); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.MessageResponse{Message: "chat session deleted"})
}
