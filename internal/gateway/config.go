package gateway

import (
	"fmt"
	"net/url"
	"time"

	"github.com/abhisek/studydeck/internal/config"
)

// Config holds content service settings.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api.
	BaseURL string `env:"STUDYDECK_API_URL" envDefault:"http://localhost:8000/api"`

	// Token is sent as a bearer token when set.
	Token string `env:"STUDYDECK_API_TOKEN"`

	// Timeout bounds each request.
	Timeout time.Duration `env:"STUDYDECK_API_TIMEOUT" envDefault:"30s"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: config.DefaultAPIURL,
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from STUDYDECK_API_* variables, falling
// back to defaults for unset values.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the base URL and timeout.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("STUDYDECK_API_URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", c.BaseURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("API URL %q must be absolute", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API URL %q must use http or https", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("API timeout must not be negative")
	}
	return nil
}
