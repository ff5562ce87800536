package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingProvider is a decorator that logs every LLM request.
type LoggingProvider struct {
	inner  Provider
	logger *zap.Logger
}

// WithLogging wraps a Provider with structured request logging.
func WithLogging(p Provider, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, logger: logger.Named("llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	fields := []zap.Field{
		zap.String("provider", l.inner.ID()),
		zap.String("model", req.Model),
		zap.String("purpose", PurposeFrom(ctx)),
		zap.Duration("latency", time.Since(start)),
		zap.Bool("image", req.Image != nil),
	}
	if id := CallIDFrom(ctx); id != "" {
		fields = append(fields, zap.String("call_id", id))
	}

	if err != nil {
		l.logger.Warn("llm request failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	fields = append(fields,
		zap.String("served_by", resp.Model),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.String("stop_reason", resp.StopReason),
	)
	if cost := LookupCost(resp.Model); cost != nil {
		fields = append(fields, zap.Float64("cost_usd", cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens)))
	}
	l.logger.Info("llm request", fields...)

	return resp, nil
}

func (l *LoggingProvider) ID() string {
	return l.inner.ID()
}
