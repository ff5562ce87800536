package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultGroqBaseURL       = "https://api.groq.com/openai/v1"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// openaiModels maps friendly names to OpenAI model IDs.
var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// OpenAIProvider implements Provider using the OpenAI SDK.
// It also serves Groq, OpenRouter and other OpenAI-compatible APIs via BaseURL.
type OpenAIProvider struct {
	id     string
	client *openai.Client
	model  string
	hasKey bool
}

// OpenAIOption customizes an OpenAIProvider.
type OpenAIOption func(*headerTransport)

// WithHeader adds a static header to every request.
func WithHeader(key, value string) OpenAIOption {
	return func(t *headerTransport) {
		t.headers.Set(key, value)
	}
}

// NewOpenAIProvider creates an OpenAI-compatible provider registered under id.
// A missing API key does not fail construction; Generate reports ErrAuth.
func NewOpenAIProvider(id string, cfg ProviderConfig, opts ...OpenAIOption) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	transport := &headerTransport{base: http.DefaultTransport, headers: http.Header{}}
	for _, opt := range opts {
		opt(transport)
	}
	config.HTTPClient = &http.Client{Transport: transport}

	return &OpenAIProvider{
		id:     id,
		client: openai.NewClientWithConfig(config),
		model:  resolveModel(cfg.Model, openaiModels),
		hasKey: cfg.APIKey != "",
	}
}

// NewGroqProvider creates a provider targeting the Groq API.
func NewGroqProvider(cfg ProviderConfig) *OpenAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGroqBaseURL
	}
	return NewOpenAIProvider(ProviderGroq, cfg)
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if !p.hasKey {
		return nil, &ErrAuth{Provider: p.id, Err: ErrMissingCredential}
	}

	model := p.model
	if req.Model != "" {
		model = resolveModel(req.Model, openaiModels)
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    buildOpenAIMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	}

	hint := &retryAfterHint{}
	resp, err := p.client.CreateChatCompletion(withRetryAfterHint(ctx, hint), chatReq)
	if err != nil {
		return nil, mapOpenAIError(p.id, err, hint.get())
	}

	return collapse(openaiEnvelope{provider: p.id, resp: resp})
}

func (p *OpenAIProvider) ID() string {
	return p.id
}

func buildOpenAIMessages(req Request) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage

	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	if req.Image == nil {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		})
		return messages
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: req.Image.DataURL()},
			},
		},
	})
	return messages
}

// openaiEnvelope is the choices[0].message.content response shape.
type openaiEnvelope struct {
	provider string
	resp     openai.ChatCompletionResponse
}

func (e openaiEnvelope) text() (string, error) {
	if len(e.resp.Choices) == 0 {
		return "", &ErrEmptyResponse{Provider: e.provider}
	}
	content := e.resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &ErrEmptyResponse{Provider: e.provider}
	}
	return content, nil
}

func (e openaiEnvelope) usage() Usage {
	return Usage{
		InputTokens:  e.resp.Usage.PromptTokens,
		OutputTokens: e.resp.Usage.CompletionTokens,
		TotalTokens:  e.resp.Usage.TotalTokens,
	}
}

func (e openaiEnvelope) model() string { return e.resp.Model }

func (e openaiEnvelope) stopReason() string {
	if len(e.resp.Choices) == 0 {
		return "end"
	}
	return mapOpenAIStopReason(e.resp.Choices[0].FinishReason)
}

func mapOpenAIStopReason(reason openai.FinishReason) string {
	switch reason {
	case openai.FinishReasonStop:
		return "end"
	case openai.FinishReasonLength:
		return "max_tokens"
	default:
		return "end"
	}
}

func mapOpenAIError(provider string, err error, retryAfter time.Duration) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(provider, apiErr.HTTPStatusCode, retryAfter, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(provider, reqErr.HTTPStatusCode, retryAfter, err)
	}
	return &ErrServer{Err: fmt.Errorf("%s: %w", provider, err)}
}

// headerTransport adds static headers to outgoing requests and records the
// Retry-After header of the response for the calling Generate.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if len(t.headers) > 0 {
		r = r.Clone(r.Context())
		for k, vs := range t.headers {
			for _, v := range vs {
				r.Header.Set(k, v)
			}
		}
	}

	resp, err := t.base.RoundTrip(r)
	if err != nil {
		return nil, err
	}
	if hint, ok := r.Context().Value(retryAfterKey{}).(*retryAfterHint); ok {
		hint.set(parseRetryAfter(resp.Header.Get("Retry-After")))
	}
	return resp, nil
}

type retryAfterKey struct{}

type retryAfterHint struct {
	mu sync.Mutex
	d  time.Duration
}

func (h *retryAfterHint) set(d time.Duration) {
	h.mu.Lock()
	h.d = d
	h.mu.Unlock()
}

func (h *retryAfterHint) get() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.d
}

func withRetryAfterHint(ctx context.Context, h *retryAfterHint) context.Context {
	return context.WithValue(ctx, retryAfterKey{}, h)
}

// parseRetryAfter reads a Retry-After value in delay-seconds form. HTTP dates
// are also accepted.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
