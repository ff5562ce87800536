package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/mcqgen/internal/llm"
	"github.com/abhisek/mcqgen/internal/mcq"
	"github.com/abhisek/mcqgen/internal/questiongen"
)

// Config controls the LLM request parameters used for audits.
type Config struct {
	MaxTokens   int     `yaml:"max_tokens" validate:"gt=0"`
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=1"`
}

// DefaultConfig returns a Config with recommended defaults. Audits run
// cooler than generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.2,
	}
}

// Auditor reviews question banks on the audit provider chain.
type Auditor struct {
	router *questiongen.Router
	orch   *questiongen.Orchestrator
	config Config
	logger *zap.Logger
}

// New creates an Auditor.
func New(router *questiongen.Router, orch *questiongen.Orchestrator, cfg Config, logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{router: router, orch: orch, config: cfg, logger: logger}
}

// Audit reviews bank and returns a report. It never fails: when the chain is
// exhausted, or ctx ends, the local rule checker produces a degraded report.
// An empty bank yields a clean report without calling any provider.
func (a *Auditor) Audit(ctx context.Context, bank []mcq.Record, topicHint string) Report {
	if len(bank) == 0 {
		return Report{Issues: []Issue{}}
	}

	ctx = llm.WithPurpose(ctx, "audit")
	ctx, callID := llm.WithCallID(ctx)
	logger := a.logger.With(zap.String("call_id", callID), zap.Int("bank_size", len(bank)))

	prompt, err := composePrompt(bank, topicHint)
	if err != nil {
		logger.Warn("audit prompt failed; using local checker", zap.Error(err))
		return degraded(bank)
	}

	req := llm.Request{
		System:      systemPrompt,
		Prompt:      prompt,
		MaxTokens:   a.config.MaxTokens,
		Temperature: a.config.Temperature,
	}

	decode := func(resp *llm.Response, link questiongen.Link) ([]Issue, error) {
		return decodeIssues(resp.Text, len(bank), link.Provider)
	}

	out, err := questiongen.Run(ctx, a.orch, a.router.SelectAudit(), req, decode)
	if err != nil {
		logger.Warn("audit providers unavailable; using local checker", zap.Error(err))
		return degraded(bank)
	}

	logger.Info("audit complete",
		zap.String("provider", out.Link.Provider),
		zap.Int("issues", len(out.Value)),
	)
	return Report{Issues: out.Value}
}

func degraded(bank []mcq.Record) Report {
	return Report{Issues: LocalCheck(bank), Degraded: true}
}

// decodeIssues sanitizes and validates a model's audit output against the
// report schema. Issues pointing outside the bank are dropped, as are
// suggested fixes that break the record invariants.
func decodeIssues(text string, bankSize int, provider string) ([]Issue, error) {
	candidate, err := mcq.Sanitize(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", provider, err)
	}

	var doc any
	if err := json.Unmarshal(candidate, &doc); err != nil {
		return nil, &questiongen.SchemaError{Index: -1, Rule: mcq.RuleShape, Provider: provider, Detail: err.Error()}
	}
	if arr, ok := doc.([]any); ok {
		doc = map[string]any{"issues": arr}
	}
	dropNullFixes(doc)
	if err := reportSchema.ValidateValue(doc); err != nil {
		return nil, &questiongen.SchemaError{Index: -1, Rule: mcq.RuleShape, Provider: provider, Detail: err.Error()}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", provider, err)
	}
	var resp auditResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &questiongen.SchemaError{Index: -1, Rule: mcq.RuleShape, Provider: provider, Detail: err.Error()}
	}

	issues := make([]Issue, 0, len(resp.Issues))
	for _, issue := range resp.Issues {
		if issue.QuestionIndex < 0 || issue.QuestionIndex >= bankSize {
			continue
		}
		if issue.SuggestedFix != nil && !mcq.Valid(*issue.SuggestedFix) {
			issue.SuggestedFix = nil
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// dropNullFixes removes "suggestedFix": null entries so they read as absent.
func dropNullFixes(doc any) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return
	}
	issues, _ := obj["issues"].([]any)
	for _, it := range issues {
		if m, ok := it.(map[string]any); ok {
			if v, present := m["suggestedFix"]; present && v == nil {
				delete(m, "suggestedFix")
			}
		}
	}
}
