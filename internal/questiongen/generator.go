package questiongen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/mcqgen/internal/llm"
	"github.com/abhisek/mcqgen/internal/mcq"
)

// Generator produces validated question batches.
type Generator struct {
	router *Router
	orch   *Orchestrator
	config Config
	logger *zap.Logger
}

// New creates a Generator.
func New(router *Router, orch *Orchestrator, cfg Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{router: router, orch: orch, config: cfg, logger: logger}
}

// Generate normalizes req, picks a provider chain and runs it. It returns at
// most req.QuestionCount (clamped) records, every one satisfying the record
// invariants, or a *GenerationError once the chain is exhausted.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	req = req.Normalize()

	ctx = llm.WithPurpose(ctx, "question-gen")
	ctx, callID := llm.WithCallID(ctx)
	logger := g.logger.With(zap.String("call_id", callID))

	chain := g.router.Select(req.QuestionCount, req.HasImage())
	logger.Info("generating questions",
		zap.String("topic", req.Topic),
		zap.Int("requested", req.QuestionCount),
		zap.Bool("image", req.HasImage()),
		zap.Stringer("first_link", chain[0]),
	)

	llmReq := llm.Request{
		System:      systemPrompt,
		Prompt:      Compose(req),
		Image:       req.SourceImage,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	decode := func(resp *llm.Response, link Link) ([]mcq.Record, error) {
		candidate, err := mcq.Sanitize(resp.Text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", link.Provider, err)
		}
		return Validate(candidate, req.QuestionCount, link.Provider)
	}

	out, err := Run(ctx, g.orch, chain, llmReq, decode)
	if err != nil {
		logger.Error("question generation failed", zap.Error(err))
		return nil, err
	}

	res := &Result{
		Questions: out.Value,
		Provider:  out.Link.Provider,
		Model:     out.Link.Model,
		Requested: req.QuestionCount,
		Partial:   len(out.Value) < req.QuestionCount,
	}
	if res.Model == "" {
		res.Model = out.Model
	}

	if res.Partial {
		logger.Warn("provider under-produced questions",
			zap.String("provider", res.Provider),
			zap.Int("requested", req.QuestionCount),
			zap.Int("received", len(res.Questions)),
		)
	}
	return res, nil
}
