package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterModels maps friendly names to OpenRouter model slugs.
var openRouterModels = map[string]string{
	"gemini-flash": "google/gemini-2.5-flash",
	"claude-haiku": "anthropic/claude-haiku-4.5",
	"gpt-mini":     "openai/gpt-4.1-mini",
}

// OpenRouterProvider targets the OpenRouter API, which is OpenAI-compatible.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	inner := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}, openRouterModels)
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
