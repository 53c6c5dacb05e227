package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"resume-tailor/internal/types"
)

// geminiClient talks to Google Gemini through the official genai SDK. The
// SDK client is created per call with the request context: provider clients
// are request-scoped (the configuration is re-read every run), so there is
// no connection to keep alive across requests.
type geminiClient struct {
	apiKey string
	model  string
}

func newGeminiClient(apiKey, model string) *geminiClient {
	return &geminiClient{apiKey: apiKey, model: model}
}

func (c *geminiClient) generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.model)
	model.SetTemperature(0.2)
	if jsonMode {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyErr("gemini", err)
	}
	return extractGeminiText(resp)
}

func (c *geminiClient) GenerateSummary(ctx context.Context, experience string) (string, error) {
	return c.generate(ctx, summaryPrompt(experience), false)
}

func (c *geminiClient) TailorSummary(ctx context.Context, additionalInfo string, skills types.Skills, experience []types.Experience, jobDescription string) (string, error) {
	return c.generate(ctx, tailorSummaryPrompt(additionalInfo, skills, experience, jobDescription), false)
}

func (c *geminiClient) TailorExperience(ctx context.Context, experience []types.Experience, jobDescription string) ([]types.Experience, error) {
	raw, err := c.generate(ctx, tailorExperiencePrompt(experience, jobDescription), true)
	if err != nil {
		return nil, err
	}
	return parseExperienceList("gemini", experience, raw)
}

func (c *geminiClient) TailorSkills(ctx context.Context, skills types.Skills, jobDescription string) (types.Skills, error) {
	raw, err := c.generate(ctx, tailorSkillsPrompt(skills, jobDescription), true)
	if err != nil {
		return types.Skills{}, err
	}
	return parseSkills("gemini", raw)
}

func (c *geminiClient) TailorProjects(ctx context.Context, projects []types.Project, jobDescription string) ([]types.Project, error) {
	raw, err := c.generate(ctx, tailorProjectsPrompt(projects, jobDescription), true)
	if err != nil {
		return nil, err
	}
	return parseProjectList("gemini", projects, raw)
}

func (c *geminiClient) TailorEducation(ctx context.Context, education []types.Education, jobDescription string) ([]types.Education, error) {
	raw, err := c.generate(ctx, tailorEducationPrompt(education, jobDescription), true)
	if err != nil {
		return nil, err
	}
	return parseEducationList("gemini", education, raw)
}

func (c *geminiClient) ScoreResume(ctx context.Context, resume types.ResumeData, jobDescription string) (types.ATSScore, error) {
	raw, err := c.generate(ctx, scorePrompt(resume, jobDescription), true)
	if err != nil {
		return types.ATSScore{}, err
	}
	return parseScore("gemini", raw)
}

func (c *geminiClient) GenerateCoverLetter(ctx context.Context, profile types.ResumeData, jobDescription, instructions string) (string, error) {
	return c.generate(ctx, coverLetterPrompt(profile, jobDescription, instructions), false)
}

func (c *geminiClient) GenerateProposal(ctx context.Context, profile types.ResumeData, jobDescription string) (types.Proposal, error) {
	raw, err := c.generate(ctx, proposalPrompt(profile, jobDescription), true)
	if err != nil {
		return types.Proposal{}, err
	}
	return parseProposal("gemini", raw)
}

func (c *geminiClient) StreamChat(ctx context.Context, system, message string, onToken func(string) error) error {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return fmt.Errorf("gemini: create client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.model)
	model.SetTemperature(0.7)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	iter := model.GenerateContentStream(ctx, genai.Text(message))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return classifyErr("gemini", err)
		}
		text, err := extractGeminiText(resp)
		if err != nil {
			// Chunks without text parts (e.g. safety metadata) are skipped.
			continue
		}
		if err := onToken(text); err != nil {
			return err
		}
	}
}

// extractGeminiText joins the text parts of the first candidate.
func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini: no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

var _ Client = (*geminiClient)(nil)
