package llm

// OpenRouter attribution headers.
const (
	openRouterReferer = "https://github.com/abhisek/mcqgen"
	openRouterTitle   = "Quizapo MCQ Generator"
)

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
// OpenRouter exposes an OpenAI-compatible API, so the underlying SDK is reused;
// the only differences are the base URL and the attribution headers.
func NewOpenRouterProvider(cfg ProviderConfig) *OpenAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenRouterBaseURL
	}
	return NewOpenAIProvider(ProviderOpenRouter, cfg,
		WithHeader("HTTP-Referer", openRouterReferer),
		WithHeader("X-Title", openRouterTitle),
	)
}
