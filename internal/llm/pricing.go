package llm

// ModelCost holds per-million-token pricing for a model.
// Prices are in USD per 1 million tokens, sourced from models.dev.
type ModelCost struct {
	InputPerMTok  float64 // USD per 1M input tokens
	OutputPerMTok float64 // USD per 1M output tokens
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the models the default chains and the adapters' friendly
// names resolve to. Prices from models.dev, checked 2026-10-01.
var modelCosts = map[string]ModelCost{
	// Groq
	"llama-3.3-70b-versatile": {0.59, 0.79},
	"llama-3.1-8b-instant":    {0.05, 0.08},

	// OpenRouter
	"meta-llama/llama-3.3-70b-instruct": {0.13, 0.4},
	"mistralai/mistral-7b-instruct":     {0.028, 0.054},

	// Gemini
	"gemini-2.0-flash": {0.1, 0.4},
	"gemini-2.5-pro":   {1.25, 10},

	// Anthropic
	"claude-sonnet-4-20250514":  {3, 15},
	"claude-haiku-4-5-20251001": {1, 5},

	// OpenAI
	"gpt-4o":      {2.5, 10},
	"gpt-4o-mini": {0.15, 0.6},
}
