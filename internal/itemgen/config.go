package itemgen

import "time"

// Config controls the behavior of the Generator.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxDocumentChars caps how much of the document is put in the prompt.
	// Longer documents are cut at a character boundary.
	MaxDocumentChars int

	// Timeout bounds one generation, retries included. Zero means no
	// timeout beyond the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        8192,
		Temperature:      0.4,
		MaxDocumentChars: 60_000,
		Timeout:          90 * time.Second,
	}
}
