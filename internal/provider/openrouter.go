package provider

const openRouterAPIURL = "https://openrouter.ai/api/v1/chat/completions"

// openrouterClient talks to OpenRouter's OpenAI-compatible API. OpenRouter
// attributes traffic via the HTTP-Referer and X-Title headers, which come
// from the user's stored SiteURL and AppName.
type openrouterClient struct {
	*completions
}

func newOpenRouterClient(apiKey, model, siteURL, appName string) *openrouterClient {
	headers := map[string]string{
		"X-Title": appName,
	}
	if siteURL != "" {
		headers["HTTP-Referer"] = siteURL
	}
	return &openrouterClient{
		completions: &completions{
			wire: newChatWire("openrouter", openRouterAPIURL, apiKey, model, headers),
		},
	}
}

var _ Client = (*openrouterClient)(nil)
