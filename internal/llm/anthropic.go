package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicModels maps friendly names to Anthropic model IDs.
var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

// AnthropicProvider implements Provider using the Anthropic SDK.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
	hasKey bool
}

// NewAnthropicProvider creates a new Anthropic provider. A missing API key
// does not fail construction; Generate reports ErrAuth.
func NewAnthropicProvider(cfg ProviderConfig) *AnthropicProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are owned by the fallback orchestrator.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropic.NewClient(opts...)

	return &AnthropicProvider{
		client: &client,
		model:  resolveModel(cfg.Model, anthropicModels),
		hasKey: cfg.APIKey != "",
	}
}

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if !p.hasKey {
		return nil, &ErrAuth{Provider: ProviderAnthropic, Err: ErrMissingCredential}
	}

	model := p.model
	if req.Model != "" {
		model = resolveModel(req.Model, anthropicModels)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  []anthropic.MessageParam{buildAnthropicMessage(req)},
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapAnthropicError(err)
	}

	return collapse(anthropicEnvelope{msg: msg})
}

func (p *AnthropicProvider) ID() string {
	return ProviderAnthropic
}

func buildAnthropicMessage(req Request) anthropic.MessageParam {
	var blocks []anthropic.ContentBlockParamUnion
	if req.Image != nil {
		blocks = append(blocks, anthropic.NewImageBlockBase64(req.Image.MIMEType, req.Image.Data))
	}
	blocks = append(blocks, anthropic.NewTextBlock(req.Prompt))

	return anthropic.MessageParam{
		Role:    anthropic.MessageParamRoleUser,
		Content: blocks,
	}
}

// anthropicEnvelope is the content-blocks response shape. Text blocks are
// concatenated in order.
type anthropicEnvelope struct {
	msg *anthropic.Message
}

func (e anthropicEnvelope) text() (string, error) {
	var sb strings.Builder
	for _, block := range e.msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", &ErrEmptyResponse{Provider: ProviderAnthropic}
	}
	return sb.String(), nil
}

func (e anthropicEnvelope) usage() Usage {
	u := e.msg.Usage
	return Usage{
		InputTokens:  int(u.InputTokens),
		OutputTokens: int(u.OutputTokens),
		TotalTokens:  int(u.InputTokens + u.OutputTokens),
	}
}

func (e anthropicEnvelope) model() string { return string(e.msg.Model) }

func (e anthropicEnvelope) stopReason() string {
	switch e.msg.StopReason {
	case "end_turn":
		return "end"
	case "max_tokens":
		return "max_tokens"
	default:
		return "end"
	}
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		var retryAfter time.Duration
		if apiErr.Response != nil {
			retryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
		}
		return classifyStatus(ProviderAnthropic, apiErr.StatusCode, retryAfter, err)
	}
	return &ErrServer{Err: fmt.Errorf("%s: %w", ProviderAnthropic, err)}
}
