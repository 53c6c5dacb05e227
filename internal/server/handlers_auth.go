package server

import (
	"net/http"

	"resume-tailor/internal/identity"
	"resume-tailor/internal/server/middleware"
	"resume-tailor/internal/types"
)

func sessionResponse(s *identity.Session) *types.SessionResponse {
	if s == nil || s.AccessToken == "" {
		return nil
	}
	return &types.SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		ExpiresIn:    s.ExpiresIn,
	}
}

// handleRegister creates an account with the upstream identity provider.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	session, err := s.identityClient.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := types.AuthResponse{
		User: types.UserResponse{
			ID:        session.User.ID,
			Email:     session.User.Email,
			CreatedAt: session.User.CreatedAt,
		},
		Session: sessionResponse(session),
	}
	if resp.Session == nil {
		// Upstream may require email confirmation before issuing tokens.
		resp.Message = "registration successful, please confirm your email"
	}
	s.jsonResponse(w, http.StatusCreated, resp)
}

// handleLogin exchanges credentials for a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	session, err := s.identityClient.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.AuthResponse{
		User: types.UserResponse{
			ID:        session.User.ID,
			Email:     session.User.Email,
			CreatedAt: session.User.CreatedAt,
		},
		Session: sessionResponse(session),
	})
}

// handleRefresh exchanges a refresh token for a new session.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req types.RefreshTokenRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	session, err := s.identityClient.RefreshSession(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sessionResponse(session))
}

// handleLogout revokes the caller's session upstream.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		s.writeError(w, identity.ErrUnauthenticated)
		return
	}

	if err := s.identityClient.SignOut(r.Context(), token); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.MessageResponse{Message: "logged out"})
}

// handleChangePassword sets a new password after re-verifying the current
// one with a fresh login.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		s.writeError(w, identity.ErrUnauthenticated)
		return
	}

	var req types.ChangePasswordRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	user, err := s.identityClient.GetUser(r.Context(), token)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// The upstream provider updates passwords for any valid session; the
	// current-password check is this layer's own gate.
	if _, err := s.identityClient.SignInWithPassword(r.Context(), user.Email, req.CurrentPassword); err != nil {
		s.writeError(w, identity.ErrInvalidCredentials)
		return
	}

	if err := s.identityClient.UpdatePassword(r.Context(), token, req.NewPassword); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.MessageResponse{Message: "password updated"})
}

// handleVerify reports whether the presented token is valid.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	claims, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		s.jsonResponse(w, http.StatusUnauthorized, types.VerifyResponse{Valid: false})
		return
	}
	s.jsonResponse(w, http.StatusOK, types.VerifyResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
	})
}

// handleMe returns the authenticated user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	claims, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.UserResponse{
		ID:    claims.UserID,
		Email: claims.Email,
	})
}
