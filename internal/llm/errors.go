package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingCredential is the cause carried by ErrAuth when no API key is
// configured for a provider.
var ErrMissingCredential = errors.New("missing API key")

// ErrAuth indicates a missing or rejected credential (401/403). It is
// terminal for the provider that returned it.
type ErrAuth struct {
	Provider string
	Err      error
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("%s: authentication failed: %v", e.Provider, e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrServer indicates the provider is down, unreachable, or timed out.
type ErrServer struct {
	Err error
}

func (e *ErrServer) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrServer) Unwrap() error { return e.Err }

// ErrEmptyResponse indicates the provider answered without any text.
type ErrEmptyResponse struct {
	Provider string
}

func (e *ErrEmptyResponse) Error() string {
	return fmt.Sprintf("%s: empty response", e.Provider)
}

// ErrRejected indicates the provider refused the request for a reason other
// than credentials or rate limits (any other 4xx), e.g. a text-only model
// given an image.
type ErrRejected struct {
	StatusCode int
	Err        error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("request rejected (status %d): %v", e.StatusCode, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// classifyStatus maps an HTTP status from a vendor error to our taxonomy.
func classifyStatus(provider string, status int, retryAfter time.Duration, err error) error {
	switch {
	case status == 401 || status == 403:
		return &ErrAuth{Provider: provider, Err: err}
	case status == 429:
		return &ErrRateLimit{RetryAfter: retryAfter, Err: err}
	case status == 408 || status >= 500:
		return &ErrServer{Err: err}
	case status >= 400:
		return &ErrRejected{StatusCode: status, Err: err}
	}
	return &ErrServer{Err: err}
}
