package llm

import (
	"context"
)

// Provider is the transport abstraction for one LLM vendor.
// Implementations send a prompt and return the model's raw text. They never
// interpret the text; parsing and validation happen downstream.
type Provider interface {
	// Generate sends the request and returns the first completion's text.
	// Errors are one of the typed errors in errors.go.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ID returns the provider identifier used in routing tables, e.g. "groq".
	ID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Optional.
	System string

	// Prompt is the single user turn. Generation is always single-turn.
	Prompt string

	// Image is an optional attachment sent alongside the prompt.
	Image *Image

	// Model selects the vendor model. Friendly aliases are resolved by the
	// adapter; empty means the adapter's configured default.
	Model string

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Image is a base64-encoded image attachment.
type Image struct {
	MIMEType string `json:"mimeType" yaml:"mime_type"`
	Data     string `json:"data" yaml:"data"`
}

// DataURL renders the image as a data: URL.
func (i *Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Data
}

// Response holds the LLM's output.
type Response struct {
	// Text is the raw completion text, unmodified apart from envelope
	// unwrapping.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// envelope is a vendor response shape. Each adapter wraps its SDK response in
// one of these and collapses it to text before returning.
type envelope interface {
	text() (string, error)
	usage() Usage
	model() string
	stopReason() string
}

// collapse turns a vendor envelope into the common Response.
func collapse(env envelope) (*Response, error) {
	text, err := env.text()
	if err != nil {
		return nil, err
	}
	return &Response{
		Text:       text,
		Usage:      env.usage(),
		Model:      env.model(),
		StopReason: env.stopReason(),
	}, nil
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	// If not in the map, use as-is (allows direct model IDs).
	return name
}
