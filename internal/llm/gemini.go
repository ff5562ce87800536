package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.5-pro",
}

// GeminiProvider implements Provider using the Google Gemini SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider. Without an API key no
// client is built and Generate reports ErrAuth.
func NewGeminiProvider(ctx context.Context, cfg ProviderConfig) (*GeminiProvider, error) {
	p := &GeminiProvider{model: resolveModel(cfg.Model, geminiModels)}
	if cfg.APIKey == "" {
		return p, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	p.client = client
	return p, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if p.client == nil {
		return nil, &ErrAuth{Provider: ProviderGemini, Err: ErrMissingCredential}
	}

	model := p.model
	if req.Model != "" {
		model = resolveModel(req.Model, geminiModels)
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
	}

	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}

	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	contents, err := buildGeminiContents(req)
	if err != nil {
		return nil, err
	}

	result, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	return collapse(geminiEnvelope{requested: model, result: result})
}

func (p *GeminiProvider) ID() string {
	return ProviderGemini
}

func buildGeminiContents(req Request) ([]*genai.Content, error) {
	parts := []*genai.Part{{Text: req.Prompt}}
	if req.Image != nil {
		data, err := base64.StdEncoding.DecodeString(req.Image.Data)
		if err != nil {
			return nil, &ErrRejected{
				StatusCode: http.StatusBadRequest,
				Err:        fmt.Errorf("decode image: %w", err),
			}
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: req.Image.MIMEType, Data: data},
		})
	}
	return []*genai.Content{{Role: "user", Parts: parts}}, nil
}

// geminiEnvelope is the candidates response shape.
type geminiEnvelope struct {
	requested string
	result    *genai.GenerateContentResponse
}

func (e geminiEnvelope) text() (string, error) {
	if e.result == nil || len(e.result.Candidates) == 0 {
		return "", &ErrEmptyResponse{Provider: ProviderGemini}
	}
	text := e.result.Text()
	if strings.TrimSpace(text) == "" {
		return "", &ErrEmptyResponse{Provider: ProviderGemini}
	}
	return text, nil
}

func (e geminiEnvelope) usage() Usage {
	if e.result == nil || e.result.UsageMetadata == nil {
		return Usage{}
	}
	m := e.result.UsageMetadata
	return Usage{
		InputTokens:  int(m.PromptTokenCount),
		OutputTokens: int(m.CandidatesTokenCount),
		TotalTokens:  int(m.TotalTokenCount),
	}
}

func (e geminiEnvelope) model() string {
	if e.result != nil && e.result.ModelVersion != "" {
		return e.result.ModelVersion
	}
	return e.requested
}

func (e geminiEnvelope) stopReason() string {
	if e.result != nil && len(e.result.Candidates) > 0 {
		switch e.result.Candidates[0].FinishReason {
		case "STOP":
			return "end"
		case "MAX_TOKENS":
			return "max_tokens"
		}
	}
	return "end"
}

func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(ProviderGemini, apiErr.Code, 0, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return classifyStatus(ProviderGemini, apiErrPtr.Code, 0, err)
	}
	return &ErrServer{Err: fmt.Errorf("%s: %w", ProviderGemini, err)}
}
