package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"resume-tailor/internal/types"
)

// systemPrompt builds the assistant's system instruction for a page
// context. Context data the frontend sent along (resume, job description,
// drafts) is embedded as JSON so the model can ground its answers.
func systemPrompt(pageContext string, contextData *types.ChatContext) string {
	var b strings.Builder

	switch pageContext {
	case types.PageAIBuild:
		b.WriteString("You are a resume-building assistant. Help the user improve their resume ")
		b.WriteString("for the job they are targeting. Be specific and actionable; suggest concrete ")
		b.WriteString("wording, quantified achievements and relevant skills. Keep answers concise.")
	case types.PageCoverLetter:
		b.WriteString("You are a cover letter writing assistant. Help the user draft and refine ")
		b.WriteString("a cover letter tailored to the job description. Focus on matching their ")
		b.WriteString("experience to the role's requirements. Keep answers concise.")
	case types.PageProposal:
		b.WriteString("You are a freelance proposal writing assistant. Help the user write a ")
		b.WriteString("persuasive project proposal based on their experience and the client's ")
		b.WriteString("brief. Keep answers concise.")
	}

	if contextData != nil {
		if contextData.Profile != nil {
			writeSection(&b, "Resume", contextData.Profile)
		}
		if contextData.JobDescription != "" {
			fmt.Fprintf(&b, "\n\nJob description:\n%s", contextData.JobDescription)
		}
		if contextData.TailoredResume != nil {
			writeSection(&b, "Tailored resume", contextData.TailoredResume)
		}
		if contextData.CoverLetter != "" {
			fmt.Fprintf(&b, "\n\nCurrent cover letter draft:\n%s", contextData.CoverLetter)
		}
		if contextData.TargetInstructions != "" {
			fmt.Fprintf(&b, "\n\nUser instructions:\n%s", contextData.TargetInstructions)
		}
		if contextData.ATSScore != nil {
			fmt.Fprintf(&b, "\n\nCurrent ATS score: %.0f", *contextData.ATSScore)
		}
		if contextData.Proposal != "" {
			fmt.Fprintf(&b, "\n\nCurrent proposal draft:\n%s", contextData.Proposal)
		}
		if len(contextData.SuggestedExperience) > 0 {
			writeSection(&b, "Suggested experience to highlight", contextData.SuggestedExperience)
		}
		if len(contextData.SuggestedProjects) > 0 {
			writeSection(&b, "Suggested projects to highlight", contextData.SuggestedProjects)
		}
	}

	return b.String()
}

func writeSection(b *strings.Builder, label string, v any) {
	if v == nil {
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintf(b, "\n\n%s (JSON):\n%s", label, data)
}
