package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"resume-tailor/internal/types"
)

// Prompt builders shared by every backend. Inputs are embedded as JSON so
// the model sees the exact schema it must echo back.

func summaryPrompt(experience string) string {
	return fmt.Sprintf(`You are a professional resume writer. Write a concise 2-3 sentence professional summary based on this work experience. Return only the summary text, no preamble.

Experience:
%s`, experience)
}

func tailorSummaryPrompt(additionalInfo string, skills types.Skills, experience []types.Experience, jobDescription string) string {
	return fmt.Sprintf(`You are a professional resume writer. Write a professional summary (2-3 sentences) tailored to the job description below. Emphasize the candidate's most relevant skills and experience. Return only the summary text, no preamble.

Candidate background:
%s

Skills:
%s

Experience:
%s

Job description:
%s`, additionalInfo, mustJSON(skills), mustJSON(experience), jobDescription)
}

func tailorExperiencePrompt(experience []types.Experience, jobDescription string) string {
	return fmt.Sprintf(`You are a professional resume writer. Rewrite the description bullets of each experience entry below to highlight achievements relevant to the job description, using its keywords where truthful. Keep every entry, keep the "id" fields exactly as given, and keep the order. Return a JSON array matching the input schema exactly, with no extra fields and no surrounding text.

Experience:
%s

Job description:
%s`, mustJSON(experience), jobDescription)
}

func tailorSkillsPrompt(skills types.Skills, jobDescription string) string {
	return fmt.Sprintf(`You are a professional resume writer. Reorder the skills below so the ones most relevant to the job description come first in each category. Do not invent skills the candidate does not list. Return a JSON object with the keys "languages", "databases", "cloud" and "tools", and no surrounding text.

Skills:
%s

Job description:
%s`, mustJSON(skills), jobDescription)
}

func tailorProjectsPrompt(projects []types.Project, jobDescription string) string {
	return fmt.Sprintf(`You are a professional resume writer. Rewrite the description bullets of each project below to emphasize technologies and outcomes relevant to the job description. Keep every entry, keep the "id" fields exactly as given, and keep the order. Return a JSON array matching the input schema exactly, with no surrounding text.

Projects:
%s

Job description:
%s`, mustJSON(projects), jobDescription)
}

func tailorEducationPrompt(education []types.Education, jobDescription string) string {
	return fmt.Sprintf(`You are a professional resume writer. Review the education entries below against the job description and adjust wording for relevance. Keep every entry, keep the "id" fields exactly as given, and keep the order. Return a JSON array matching the input schema exactly, with no surrounding text.

Education:
%s

Job description:
%s`, mustJSON(education), jobDescription)
}

func scorePrompt(resume types.ResumeData, jobDescription string) string {
	return fmt.Sprintf(`You are an ATS (applicant tracking system) analyst. Rate how well this resume matches the job description. Return a JSON object {"score": <integer 0-100>, "feedback": "<one short paragraph>"} and no surrounding text.

Resume:
%s

Job description:
%s`, mustJSON(resume), jobDescription)
}

func coverLetterPrompt(profile types.ResumeData, jobDescription, instructions string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a professional cover letter writer. Write the body paragraphs of a cover letter for the candidate below applying to this job. Write only body paragraphs: no greeting line, no closing line, no signature.

Candidate profile:
%s

Job description:
%s`, mustJSON(profile), jobDescription)
	if strings.TrimSpace(instructions) != "" {
		fmt.Fprintf(&b, "\n\nAdditional instructions:\n%s", instructions)
	}
	return b.String()
}

func proposalPrompt(profile types.ResumeData, jobDescription string) string {
	return fmt.Sprintf(`You are a freelance proposal writer. Write a short, specific proposal for the job below, and pick the candidate's most relevant experience and project entries. Return a JSON object {"proposal": "<text>", "suggested_experience": [<experience ids>], "suggested_projects": [<project ids>]} and no surrounding text.

Candidate profile:
%s

Job posting:
%s`, mustJSON(profile), jobDescription)
}

// mustJSON renders a value for prompt embedding. Marshal cannot fail for
// the plain structs used here.
func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
