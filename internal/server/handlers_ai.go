package server

import (
	"errors"
	"net/http"

	"resume-tailor/internal/provider"
	"resume-tailor/internal/server/middleware"
	"resume-tailor/internal/tailor"
	"resume-tailor/internal/textproc"
	"resume-tailor/internal/types"
)

// aiClient authenticates the request and resolves the caller's provider
// client. Errors are already written when ok is false.
func (s *Server) aiClient(w http.ResponseWriter, r *http.Request) (provider.Client, string, bool) {
	claims, err := middleware.GetClaims(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return nil, "", false
	}
	client, err := s.resolveClient(r.Context(), claims.UserID)
	if err != nil {
		s.writeError(w, err)
		return nil, "", false
	}
	return client, claims.UserID, true
}

// aiError maps a provider failure onto the taxonomy: rate limits keep
// their classification, everything else is a transport fault.
func (s *Server) aiError(w http.ResponseWriter, err error) {
	if errors.Is(err, provider.ErrRateLimited) {
		s.writeError(w, err)
		return
	}
	s.writeError(w, &ErrProviderTransport{Err: err})
}

// handleGenerateSummary generates a professional summary from raw
// experience text.
func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	client, _, ok := s.aiClient(w, r)
	if !ok {
		return
	}

	var req struct {
		Experience string `json:"experience" validate:"required"`
	}
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	summary, err := client.GenerateSummary(r.Context(), req.Experience)
	if err != nil {
		s.aiError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"summary": summary})
}

// handleTailorSummary tailors just the summary. Unlike the full run,
// single-section endpoints surface provider errors instead of falling back.
func (s *Server) handleTailorSummary(w http.ResponseWriter, r *http.Request) {
	client, _, ok := s.aiClient(w, r)
	if !ok {
		return
	}

	var req types.TailorRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	p := req.ProfileData
	summary, err := client.TailorSummary(r.Context(), p.AdditionalInfo, p.Skills, p.Experience, req.JobDescription)
	if err != nil {
		s.aiError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handleTailorExperience(w http.ResponseWriter, r *http.Request) {
	client, _, ok := s.aiClient(w, r)
	if !ok {
		return
	}

	var req types.TailorRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	experience, err := client.TailorExperience(r.Context(), req.ProfileData.Experience, req.JobDescription)
	if err != nil {
		s.aiError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"experience": experience})
}

func (s *Server) handleTailorSkills(w http.ResponseWriter, r *http.Request) {
	client, _, ok := s.aiClient(w, r)
	if !ok {
		return
	}

	var req types.TailorRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	skills, err := client.TailorSkills(r.Context(), req.ProfileData.Skills, req.JobDescription)
	if err != nil {
		s.aiError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"skills": skills})
}

func (s *Server) handleTailorProjects(w http.ResponseWriter, r *http.Request) {
	client, _, ok := s.aiClient(w, r)
	if !ok {
		return
	}

	var req types.TailorRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	projects, err := client.TailorProjects(r.Context(), req.ProfileData.Projects, req.JobDescription)
	if err != nil {
		s.aiError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleTailorEducation(w http.ResponseWriter, r *http.Request) {
	client, _, ok := s.aiClient(w, r)
	if !ok {
		return
	}

	var req types.TailorRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	education, err := client.TailorEducation(r.Context(), req.ProfileData.Education, req.JobDescription)
	if err != nil {
		s.aiError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"education": education})
}

// handleTailorResume runs the full five-section tailoring fan-out.
func (s *Server) handleTailorResume(w http.ResponseWriter, r *http.Request) {
	client, _, ok := s.aiClient(w, r)
	if !ok {
		return
	}

	var req types.TailorRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.orchestrator.TailorResume(r.Context(), client, req)
	if err != nil {
		s.aiError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// BatchTailorRequest is the batch endpoint's body.
type BatchTailorRequest struct {
	Requests []types.TailorRequest `json:"requests" validate:"required,min=1,dive"`
}

// handleBatchTailor tailors the resume against up to five job descriptions
// at once. Oversized batches are rejected before any provider work.
func (s *Server) handleBatchTailor(w http.ResponseWriter, r *http.Request) {
	client, _, ok := s.aiClient(w, r)
	if !ok {
		return
	}

	var req BatchTailorRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	results, err := s.orchestrator.TailorBatch(r.Context(), client, req.Requests)
	if err != nil {
		if errors.Is(err, tailor.ErrBatchTooLarge) {
			s.writeError(w, &ErrValidation{Field: "requests", Message: err.Error()})
			return
		}
		s.aiError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"results": results})
}

// handleGenerateCoverLetter generates a cover letter and strips the
// boilerplate greeting and closing before returning it.
func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	client, _, ok := s.aiClient(w, r)
	if !ok {
		return
	}

	var req types.CoverLetterRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	raw, err := client.GenerateCoverLetter(r.Context(), req.ProfileData, req.JobDescription, req.Instructions)
	if err != nil {
		s.aiError(w, err)
		return
	}

	cleaned := textproc.CleanCoverLetter(raw, req.ProfileData.PersonalInfo.FullName)
	s.jsonResponse(w, http.StatusOK, map[string]string{"coverLetter": cleaned})
}

// handleGenerateProposal generates a freelance proposal.
func (s *Server) handleGenerateProposal(w http.ResponseWriter, r *http.Request) {
	client, _, ok := s.aiClient(w, r)
	if !ok {
		return
	}

	var req types.TailorRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	proposal, err := client.GenerateProposal(r.Context(), req.ProfileData, req.JobDescription)
	if err != nil {
		s.aiError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, proposal)
}
