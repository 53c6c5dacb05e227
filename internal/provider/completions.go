package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-tailor/internal/types"
)

// completions implements the full capability set on top of an
// OpenAI-compatible chat-completions wire. Both the openai and openrouter
// backends compose it; they differ only in endpoint and headers.
type completions struct {
	wire *chatWire
}

func (c *completions) GenerateSummary(ctx context.Context, experience string) (string, error) {
	return c.wire.complete(ctx, "", summaryPrompt(experience), false)
}

func (c *completions) TailorSummary(ctx context.Context, additionalInfo string, skills types.Skills, experience []types.Experience, jobDescription string) (string, error) {
	return c.wire.complete(ctx, "", tailorSummaryPrompt(additionalInfo, skills, experience, jobDescription), false)
}

func (c *completions) TailorExperience(ctx context.Context, experience []types.Experience, jobDescription string) ([]types.Experience, error) {
	raw, err := c.wire.complete(ctx, "", tailorExperiencePrompt(experience, jobDescription), false)
	if err != nil {
		return nil, err
	}
	return parseExperienceList(c.wire.name, experience, raw)
}

func (c *completions) TailorSkills(ctx context.Context, skills types.Skills, jobDescription string) (types.Skills, error) {
	raw, err := c.wire.complete(ctx, "", tailorSkillsPrompt(skills, jobDescription), true)
	if err != nil {
		return types.Skills{}, err
	}
	return parseSkills(c.wire.name, raw)
}

func (c *completions) TailorProjects(ctx context.Context, projects []types.Project, jobDescription string) ([]types.Project, error) {
	raw, err := c.wire.complete(ctx, "", tailorProjectsPrompt(projects, jobDescription), false)
	if err != nil {
		return nil, err
	}
	return parseProjectList(c.wire.name, projects, raw)
}

func (c *completions) TailorEducation(ctx context.Context, education []types.Education, jobDescription string) ([]types.Education, error) {
	raw, err := c.wire.complete(ctx, "", tailorEducationPrompt(education, jobDescription), false)
	if err != nil {
		return nil, err
	}
	return parseEducationList(c.wire.name, education, raw)
}

func (c *completions) ScoreResume(ctx context.Context, resume types.ResumeData, jobDescription string) (types.ATSScore, error) {
	raw, err := c.wire.complete(ctx, "", scorePrompt(resume, jobDescription), true)
	if err != nil {
		return types.ATSScore{}, err
	}
	return parseScore(c.wire.name, raw)
}

func (c *completions) GenerateCoverLetter(ctx context.Context, profile types.ResumeData, jobDescription, instructions string) (string, error) {
	return c.wire.complete(ctx, "", coverLetterPrompt(profile, jobDescription, instructions), false)
}

func (c *completions) GenerateProposal(ctx context.Context, profile types.ResumeData, jobDescription string) (types.Proposal, error) {
	raw, err := c.wire.complete(ctx, "", proposalPrompt(profile, jobDescription), true)
	if err != nil {
		return types.Proposal{}, err
	}
	return parseProposal(c.wire.name, raw)
}

func (c *completions) StreamChat(ctx context.Context, system, message string, onToken func(string) error) error {
	return c.wire.stream(ctx, system, message, onToken)
}

// parseExperienceList decodes a tailored experience list. Cardinality must
// match the input, and identifiers are positional: every entry takes the
// input ID at its index, so a model that drops or rewrites IDs cannot
// detach an entry from its original.
func parseExperienceList(provider string, input []types.Experience, raw string) ([]types.Experience, error) {
	var out []types.Experience
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &out); err != nil {
		return nil, fmt.Errorf("%s: experience parse: %w", provider, err)
	}
	if len(out) != len(input) {
		return nil, fmt.Errorf("%s: experience count changed: got %d, want %d", provider, len(out), len(input))
	}
	for i := range out {
		out[i].ID = input[i].ID
	}
	return out, nil
}

func parseProjectList(provider string, input []types.Project, raw string) ([]types.Project, error) {
	var out []types.Project
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &out); err != nil {
		return nil, fmt.Errorf("%s: projects parse: %w", provider, err)
	}
	if len(out) != len(input) {
		return nil, fmt.Errorf("%s: project count changed: got %d, want %d", provider, len(out), len(input))
	}
	for i := range out {
		out[i].ID = input[i].ID
	}
	return out, nil
}

func parseEducationList(provider string, input []types.Education, raw string) ([]types.Education, error) {
	var out []types.Education
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &out); err != nil {
		return nil, fmt.Errorf("%s: education parse: %w", provider, err)
	}
	if len(out) != len(input) {
		return nil, fmt.Errorf("%s: education count changed: got %d, want %d", provider, len(out), len(input))
	}
	for i := range out {
		out[i].ID = input[i].ID
	}
	return out, nil
}

func parseSkills(provider, raw string) (types.Skills, error) {
	var out types.Skills
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &out); err != nil {
		return types.Skills{}, fmt.Errorf("%s: skills parse: %w", provider, err)
	}
	return out, nil
}

func parseScore(provider, raw string) (types.ATSScore, error) {
	var out types.ATSScore
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &out); err != nil {
		return types.ATSScore{}, fmt.Errorf("%s: score parse: %w", provider, err)
	}
	if out.Score < 0 || out.Score > 100 {
		return types.ATSScore{}, fmt.Errorf("%s: score out of range: %d", provider, out.Score)
	}
	return out, nil
}

func parseProposal(provider, raw string) (types.Proposal, error) {
	var out types.Proposal
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &out); err != nil {
		return types.Proposal{}, fmt.Errorf("%s: proposal parse: %w", provider, err)
	}
	if out.Proposal == "" {
		return types.Proposal{}, fmt.Errorf("%s: proposal empty", provider)
	}
	return out, nil
}
