package types

// Page contexts the chat assistant can be briefed for. The page selects
// which system-level framing the model receives.
const (
	PageAIBuild     = "ai_build"
	PageCoverLetter = "cover_letter"
	PageProposal    = "proposal"
)

// ChatContext is the structured context payload accompanying a chat turn.
type ChatContext struct {
	Page                string              `json:"page"`
	Profile             *ResumeData         `json:"profile,omitempty"`
	JobDescription      string              `json:"job_description,omitempty"`
	TailoredResume      *TailoredResumeData `json:"tailored_resume,omitempty"`
	CoverLetter         string              `json:"cover_letter,omitempty"`
	TargetInstructions  string              `json:"target_instructions,omitempty"`
	ATSScore            *float64            `json:"ats_score,omitempty"`
	Proposal            string              `json:"proposal,omitempty"`
	SuggestedExperience []string            `json:"suggested_experience,omitempty"`
	SuggestedProjects   []string            `json:"suggested_projects,omitempty"`
}

// ChatRequest is one chat turn from the client.
type ChatRequest struct {
	Message     string      `json:"message" validate:"required"`
	PageContext string      `json:"page_context" validate:"required,oneof=ai_build cover_letter proposal"`
	ContextData ChatContext `json:"context_data"`
	SessionID   string      `json:"session_id,omitempty"`
}

// ChatHistoryItem is one persisted chat message.
type ChatHistoryItem struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	SessionID   string `json:"session_id"`
	PageContext string `json:"page_context"`
	Role        string `json:"role"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
}

// ChatHistoryResponse is the chat history listing body.
type ChatHistoryResponse struct {
	Messages  []ChatHistoryItem `json:"messages"`
	SessionID string            `json:"session_id"`
}
