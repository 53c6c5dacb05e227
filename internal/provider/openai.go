package provider

const openAIAPIURL = "https://api.openai.com/v1/chat/completions"

// openaiClient talks to the OpenAI Chat Completions API.
type openaiClient struct {
	*completions
}

func newOpenAIClient(apiKey, model string) *openaiClient {
	return &openaiClient{
		completions: &completions{
			wire: newChatWire("openai", openAIAPIURL, apiKey, model, nil),
		},
	}
}

var _ Client = (*openaiClient)(nil)
