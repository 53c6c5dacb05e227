// Package provider abstracts the LLM backends a user can bring their own
// key for. Every backend implements the same capability set; the factory in
// New selects the implementation from a user's stored configuration.
package provider

import (
	"context"
	"fmt"
	"strings"

	"resume-tailor/internal/types"
)

// Kind identifies an LLM backend.
type Kind string

const (
	KindOpenAI     Kind = "openai"
	KindGemini     Kind = "gemini"
	KindOpenRouter Kind = "openrouter"
)

// Default models used when the stored configuration omits one.
const (
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultGeminiModel     = "gemini-2.0-flash-exp"
	defaultOpenRouterModel = "anthropic/claude-3.5-sonnet"
	defaultAppName         = "Resumyx"
)

// Config is a user's stored provider configuration. SiteURL and AppName are
// only meaningful for the openrouter kind.
type Config struct {
	Provider Kind   `json:"provider"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model,omitempty"`
	SiteURL  string `json:"site_url,omitempty"`
	AppName  string `json:"app_name,omitempty"`
}

// Validate reports whether the configuration can be stored. An empty or
// whitespace-only key is invalid regardless of provider kind.
func (c Config) Validate() error {
	switch c.Provider {
	case KindOpenAI, KindGemini, KindOpenRouter:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("api key is required")
	}
	return nil
}

// DefaultConfig is the configuration presented to users who have not
// saved settings yet. It carries no key and cannot run requests.
func DefaultConfig() Config {
	return Config{
		Provider: KindGemini,
		Model:    defaultGeminiModel,
	}
}

// Masked returns a copy safe to echo back to the client: the secret is
// always blanked, never the original key.
func (c Config) Masked() Config {
	c.APIKey = ""
	return c
}

// Client is the uniform capability set over all LLM backends. Tailor
// operations on list sections return lists of equal cardinality with the
// caller-assigned identifiers preserved in order.
type Client interface {
	GenerateSummary(ctx context.Context, experience string) (string, error)
	TailorSummary(ctx context.Context, additionalInfo string, skills types.Skills, experience []types.Experience, jobDescription string) (string, error)
	TailorExperience(ctx context.Context, experience []types.Experience, jobDescription string) ([]types.Experience, error)
	TailorSkills(ctx context.Context, skills types.Skills, jobDescription string) (types.Skills, error)
	TailorProjects(ctx context.Context, projects []types.Project, jobDescription string) ([]types.Project, error)
	TailorEducation(ctx context.Context, education []types.Education, jobDescription string) ([]types.Education, error)
	ScoreResume(ctx context.Context, resume types.ResumeData, jobDescription string) (types.ATSScore, error)
	GenerateCoverLetter(ctx context.Context, profile types.ResumeData, jobDescription, instructions string) (string, error)
	GenerateProposal(ctx context.Context, profile types.ResumeData, jobDescription string) (types.Proposal, error)
	// StreamChat generates a chat reply token by token, invoking onToken in
	// generation order. A non-nil return from onToken stops generation.
	StreamChat(ctx context.Context, system, message string, onToken func(token string) error) error
}

// New constructs the Client for a stored configuration. An unknown provider
// kind is a configuration error; no network call is attempted.
func New(cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("provider %q: api key is required", cfg.Provider)
	}
	switch cfg.Provider {
	case KindOpenAI:
		model := cfg.Model
		if model == "" {
			model = defaultOpenAIModel
		}
		return newOpenAIClient(cfg.APIKey, model), nil
	case KindGemini:
		model := cfg.Model
		if model == "" {
			model = defaultGeminiModel
		}
		return newGeminiClient(cfg.APIKey, model), nil
	case KindOpenRouter:
		model := cfg.Model
		if model == "" {
			model = defaultOpenRouterModel
		}
		appName := cfg.AppName
		if appName == "" {
			appName = defaultAppName
		}
		return newOpenRouterClient(cfg.APIKey, model, cfg.SiteURL, appName), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
