package questiongen

import (
	"fmt"
	"slices"
)

// Link is one step of a provider chain.
type Link struct {
	Provider string `yaml:"provider" json:"provider" validate:"required"`
	Model    string `yaml:"model" json:"model"`
}

func (l Link) String() string {
	if l.Model == "" {
		return l.Provider
	}
	return l.Provider + "/" + l.Model
}

// Chain is an ordered provider fallback sequence.
type Chain []Link

// RoutingConfig is the routing decision table.
type RoutingConfig struct {
	// HeavyThreshold is the question count above which the heavy chain is
	// used. Default: 40.
	HeavyThreshold int `yaml:"heavy_threshold" validate:"gte=1"`

	Light Chain `yaml:"light" validate:"required,min=1,dive"`
	Heavy Chain `yaml:"heavy" validate:"required,min=1,dive"`

	// Audit is the chain for quality audits. Empty means the light chain.
	Audit Chain `yaml:"audit" validate:"omitempty,dive"`
}

// DefaultRoutingConfig returns the standard routing table: Groq for small
// batches, then OpenRouter models; Gemini and Anthropic first for large or
// image-backed batches.
func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{
		HeavyThreshold: 40,
		Light: Chain{
			{Provider: "groq", Model: "llama-3.3-70b-versatile"},
			{Provider: "openrouter", Model: "meta-llama/llama-3.3-70b-instruct"},
			{Provider: "openrouter", Model: "mistralai/mistral-7b-instruct"},
		},
		Heavy: Chain{
			{Provider: "gemini", Model: "gemini-2.0-flash"},
			{Provider: "anthropic", Model: "claude-sonnet"},
			{Provider: "openrouter", Model: "meta-llama/llama-3.3-70b-instruct"},
			{Provider: "openrouter", Model: "mistralai/mistral-7b-instruct"},
		},
	}
}

// Router picks a provider chain for a request.
type Router struct {
	cfg RoutingConfig
}

// NewRouter validates cfg against the set of known provider ids and returns
// a Router.
func NewRouter(cfg RoutingConfig, known []string) (*Router, error) {
	if cfg.HeavyThreshold < 1 {
		return nil, fmt.Errorf("routing: heavy threshold must be positive, got %d", cfg.HeavyThreshold)
	}
	chains := []struct {
		name  string
		chain Chain
	}{{"light", cfg.Light}, {"heavy", cfg.Heavy}, {"audit", cfg.Audit}}
	for _, c := range chains {
		name, chain := c.name, c.chain
		if len(chain) == 0 && name != "audit" {
			return nil, fmt.Errorf("routing: %s chain is empty", name)
		}
		for i, link := range chain {
			if !slices.Contains(known, link.Provider) {
				return nil, fmt.Errorf("routing: %s chain link %d: unknown provider %q", name, i, link.Provider)
			}
		}
	}
	return &Router{cfg: cfg}, nil
}

// Select returns the chain for a request of count questions. Large batches
// and image-backed requests take the heavy chain.
func (r *Router) Select(count int, hasImage bool) Chain {
	if count > r.cfg.HeavyThreshold || hasImage {
		return slices.Clone(r.cfg.Heavy)
	}
	return slices.Clone(r.cfg.Light)
}

// SelectAudit returns the chain for quality audits.
func (r *Router) SelectAudit() Chain {
	if len(r.cfg.Audit) > 0 {
		return slices.Clone(r.cfg.Audit)
	}
	return slices.Clone(r.cfg.Light)
}
