package provider

// ModelInfo describes one model a provider exposes.
type ModelInfo struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ProviderInfo describes one provider kind for the settings UI.
type ProviderInfo struct {
	Value       Kind        `json:"value"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	RequiresKey bool        `json:"requiresKey"`
	Models      []ModelInfo `json:"models"`
}

// Catalog returns the static enumeration of supported provider kinds and
// their model identifiers. Read-only; the slice is rebuilt per call so
// callers cannot mutate the catalog.
func Catalog() []ProviderInfo {
	return []ProviderInfo{
		{
			Value:       KindGemini,
			Label:       "Google Gemini",
			Description: "Google's powerful AI models",
			RequiresKey: true,
			Models: []ModelInfo{
				{Value: "gemini-2.0-flash-exp", Label: "Gemini 2.0 Flash (Experimental)", Description: "Fast and efficient"},
				{Value: "gemini-1.5-pro", Label: "Gemini 1.5 Pro", Description: "Most capable"},
				{Value: "gemini-1.5-flash", Label: "Gemini 1.5 Flash", Description: "Fast responses"},
			},
		},
		{
			Value:       KindOpenAI,
			Label:       "OpenAI",
			Description: "GPT models from OpenAI",
			RequiresKey: true,
			Models: []ModelInfo{
				{Value: "gpt-4o", Label: "GPT-4o", Description: "Most capable, multimodal"},
				{Value: "gpt-4o-mini", Label: "GPT-4o Mini", Description: "Affordable and intelligent"},
				{Value: "gpt-4-turbo", Label: "GPT-4 Turbo", Description: "Previous flagship"},
				{Value: "gpt-3.5-turbo", Label: "GPT-3.5 Turbo", Description: "Fast and affordable"},
			},
		},
		{
			Value:       KindOpenRouter,
			Label:       "OpenRouter",
			Description: "Access multiple AI models through one API",
			RequiresKey: true,
			Models: []ModelInfo{
				{Value: "anthropic/claude-3.5-sonnet", Label: "Claude 3.5 Sonnet", Description: "Best overall"},
				{Value: "anthropic/claude-3-opus", Label: "Claude 3 Opus", Description: "Most capable"},
				{Value: "openai/gpt-4o", Label: "GPT-4o", Description: "Via OpenRouter"},
				{Value: "google/gemini-pro-1.5", Label: "Gemini Pro 1.5", Description: "Via OpenRouter"},
				{Value: "meta-llama/llama-3.1-70b-instruct", Label: "Llama 3.1 70B", Description: "Open source"},
				{Value: "mistralai/mixtral-8x7b-instruct", Label: "Mixtral 8x7B", Description: "Fast and capable"},
			},
		},
	}
}
