package questiongen

// Config controls the LLM request parameters used for generation.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int `yaml:"max_tokens" validate:"gt=0"`

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=1"`
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   8192,
		Temperature: 0.5,
	}
}
