package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider identifiers used in routing tables.
const (
	ProviderOpenAI     = "openai"
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
)

// KnownProviders lists every provider the factory can build, in display order.
var KnownProviders = []string{
	ProviderGroq,
	ProviderOpenRouter,
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderGemini,
}

// Config holds all LLM provider configuration. It is loaded once at startup
// and never mutated afterwards.
type Config struct {
	OpenAI     ProviderConfig `yaml:"openai"`
	Groq       ProviderConfig `yaml:"groq"`
	OpenRouter ProviderConfig `yaml:"openrouter"`
	Anthropic  ProviderConfig `yaml:"anthropic"`
	Gemini     ProviderConfig `yaml:"gemini"`

	Retry RetryConfig `yaml:"retry"`

	// Timeout bounds a single provider call. A timeout is a transient
	// failure. Default: 60s.
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// ProviderConfig holds one provider's credential and endpoint.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default model when a chain link omits one.
	BaseURL string `yaml:"base_url"` // Optional endpoint override.
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt on the
	// same chain link.
	MaxRetries  int           `yaml:"max_retries" validate:"gte=0,lte=10"`
	InitialWait time.Duration `yaml:"initial_wait" validate:"gte=0"`
	MaxWait     time.Duration `yaml:"max_wait" validate:"gte=0"`
	Multiplier  float64       `yaml:"multiplier" validate:"gte=1"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		OpenAI: ProviderConfig{
			Model: "gpt-4o-mini",
		},
		Groq: ProviderConfig{
			Model:   "llama-3.3-70b-versatile",
			BaseURL: defaultGroqBaseURL,
		},
		OpenRouter: ProviderConfig{
			Model:   "meta-llama/llama-3.3-70b-instruct",
			BaseURL: defaultOpenRouterBaseURL,
		},
		Anthropic: ProviderConfig{
			Model: "claude-sonnet",
		},
		Gemini: ProviderConfig{
			Model: "gemini-flash",
		},
		Retry: RetryConfig{
			MaxRetries:  2,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ApplyEnv overlays environment variables onto cfg. MCQGEN_* variables take
// precedence over the vendors' standard key variables.
func ApplyEnv(cfg *Config) {
	for _, id := range KnownProviders {
		pc := cfg.provider(id)
		prefix := "MCQGEN_" + envName(id)

		if k := os.Getenv(standardKeyEnv[id]); k != "" {
			pc.APIKey = k
		}
		if k := os.Getenv(prefix + "_API_KEY"); k != "" {
			pc.APIKey = k
		}
		if m := os.Getenv(prefix + "_MODEL"); m != "" {
			pc.Model = m
		}
		if u := os.Getenv(prefix + "_BASE_URL"); u != "" {
			pc.BaseURL = u
		}
	}

	if t := os.Getenv("MCQGEN_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}
}

// ProviderConfig returns the configuration for the given provider id.
func (c Config) ProviderConfig(id string) (ProviderConfig, error) {
	pc := c.provider(id)
	if pc == nil {
		return ProviderConfig{}, fmt.Errorf("unknown LLM provider: %q", id)
	}
	return *pc, nil
}

// HasCredential reports whether an API key is configured for id.
func (c Config) HasCredential(id string) bool {
	pc := c.provider(id)
	return pc != nil && pc.APIKey != ""
}

func (c *Config) provider(id string) *ProviderConfig {
	switch id {
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGroq:
		return &c.Groq
	case ProviderOpenRouter:
		return &c.OpenRouter
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderGemini:
		return &c.Gemini
	}
	return nil
}

var standardKeyEnv = map[string]string{
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderGroq:       "GROQ_API_KEY",
	ProviderOpenRouter: "OPENROUTER_API_KEY",
	ProviderAnthropic:  "ANTHROPIC_API_KEY",
	ProviderGemini:     "GEMINI_API_KEY",
}

func envName(id string) string {
	return strings.ToUpper(id)
}
