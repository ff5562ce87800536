package llm

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	callIDKey  contextKey = "llm_call_id"
)

// WithPurpose attaches a purpose label to the context for logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithCallID attaches a fresh call id to the context and returns both. Every
// provider attempt made on behalf of one Generate or Audit call shares it.
func WithCallID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, callIDKey, id), id
}

// CallIDFrom extracts the call id from the context, or "" if none is set.
func CallIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(callIDKey).(string); ok {
		return v
	}
	return ""
}
