// Package engine is the single entry point for generating and auditing
// question banks. It wires providers, routing, orchestration, generation and
// auditing from one immutable configuration.
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/mcqgen/internal/audit"
	"github.com/abhisek/mcqgen/internal/config"
	"github.com/abhisek/mcqgen/internal/llm"
	"github.com/abhisek/mcqgen/internal/mcq"
	"github.com/abhisek/mcqgen/internal/questiongen"
)

// Engine is safe for concurrent use. Nothing in it changes after New.
type Engine struct {
	cfg       config.Config
	registry  *llm.Registry
	generator *questiongen.Generator
	auditor   *audit.Auditor
}

// ProviderStatus describes one configured provider.
type ProviderStatus struct {
	ID            string `json:"id"`
	Model         string `json:"model"`
	HasCredential bool   `json:"hasCredential"`
}

// New builds every known provider from cfg and wires the engine.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry, err := llm.NewRegistry(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("build providers: %w", err)
	}
	return NewWithRegistry(cfg, registry, logger)
}

// NewWithRegistry wires the engine on an existing registry.
func NewWithRegistry(cfg config.Config, registry *llm.Registry, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	router, err := questiongen.NewRouter(cfg.Routing, registry.IDs())
	if err != nil {
		return nil, err
	}

	orch := questiongen.NewOrchestrator(
		registry,
		llm.NewRetryPolicy(cfg.LLM.Retry),
		cfg.LLM.Timeout,
		questiongen.WithLogger(logger.Named("orchestrator")),
	)

	return &Engine{
		cfg:       cfg,
		registry:  registry,
		generator: questiongen.New(router, orch, cfg.Generation, logger.Named("generator")),
		auditor:   audit.New(router, orch, cfg.Audit, logger.Named("audit")),
	}, nil
}

// Generate produces a validated question bank for req.
func (e *Engine) Generate(ctx context.Context, req questiongen.Request) (*questiongen.Result, error) {
	return e.generator.Generate(ctx, req)
}

// Audit reviews bank. It always returns a report.
func (e *Engine) Audit(ctx context.Context, bank []mcq.Record, topicHint string) audit.Report {
	return e.auditor.Audit(ctx, bank, topicHint)
}

// Providers reports the configured providers in display order.
func (e *Engine) Providers() []ProviderStatus {
	out := make([]ProviderStatus, 0, len(llm.KnownProviders))
	for _, id := range llm.KnownProviders {
		if _, ok := e.registry.Get(id); !ok {
			continue
		}
		pc, err := e.cfg.LLM.ProviderConfig(id)
		if err != nil {
			continue
		}
		out = append(out, ProviderStatus{ID: id, Model: pc.Model, HasCredential: pc.APIKey != ""})
	}
	return out
}
