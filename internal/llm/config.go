package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/abhisek/studydeck/internal/config"
)

// Config holds all LLM provider configuration. It is read from
// STUDYDECK_LLM_* and per-provider STUDYDECK_<PROVIDER>_* variables.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `env:"STUDYDECK_LLM_PROVIDER" envDefault:"anthropic"`

	Anthropic  AnthropicConfig  `envPrefix:"STUDYDECK_ANTHROPIC_"`
	OpenAI     OpenAIConfig     `envPrefix:"STUDYDECK_OPENAI_"`
	Gemini     GeminiConfig     `envPrefix:"STUDYDECK_GEMINI_"`
	OpenRouter OpenRouterConfig `envPrefix:"STUDYDECK_OPENROUTER_"`
	Retry      RetryConfig      `envPrefix:"STUDYDECK_LLM_RETRY_"`

	// Timeout bounds a single generation including retries.
	Timeout time.Duration `env:"STUDYDECK_LLM_TIMEOUT" envDefault:"90s"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"claude-haiku"`
	BaseURL string `env:"BASE_URL"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gpt-mini"`
	BaseURL string `env:"BASE_URL"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gemini-flash"`
	BaseURL string `env:"BASE_URL"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gemini-flash"`
	BaseURL string `env:"BASE_URL"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	InitialWait time.Duration `env:"INITIAL_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"MULTIPLIER" envDefault:"2"`
}

// DefaultConfig returns a Config with the same defaults as the env tags.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 90 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. When no STUDYDECK_ key is set for the
// chosen provider, the provider's conventional key variable is tried.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if os.Getenv("STUDYDECK_LLM_PROVIDER") == "" {
		if discovered, ok := DiscoverProvider(); ok {
			cfg.Provider = discovered
		}
	}
	fillStandardKeys(&cfg)
	return cfg, nil
}

// standardKeys are the variables each vendor's own tooling reads.
var standardKeys = []struct {
	provider string
	env      string
}{
	{"gemini", "GEMINI_API_KEY"},
	{"openai", "OPENAI_API_KEY"},
	{"anthropic", "ANTHROPIC_API_KEY"},
	{"openrouter", "OPENROUTER_API_KEY"},
}

// DiscoverProvider probes the vendors' standard API key variables in
// priority order and returns the first provider with a key set, unless a
// STUDYDECK_ key is already configured for the default provider.
func DiscoverProvider() (string, bool) {
	if os.Getenv("STUDYDECK_ANTHROPIC_API_KEY") != "" {
		return "anthropic", true
	}
	for _, k := range standardKeys {
		if os.Getenv(k.env) != "" {
			return k.provider, true
		}
	}
	return "", false
}

func fillStandardKeys(cfg *Config) {
	targets := map[string]*string{
		"anthropic":  &cfg.Anthropic.APIKey,
		"openai":     &cfg.OpenAI.APIKey,
		"gemini":     &cfg.Gemini.APIKey,
		"openrouter": &cfg.OpenRouter.APIKey,
	}
	for _, k := range standardKeys {
		if dst := targets[k.provider]; *dst == "" {
			*dst = os.Getenv(k.env)
		}
	}
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("STUDYDECK_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("STUDYDECK_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("STUDYDECK_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("STUDYDECK_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
