package audit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/mcqgen/internal/llm"
	"github.com/abhisek/mcqgen/internal/mcq"
	"github.com/abhisek/mcqgen/internal/questiongen"
)

type testProviders struct {
	groq, openrouter *llm.MockProvider
}

func newTestAuditor(t *testing.T) (*Auditor, *testProviders) {
	t.Helper()
	ps := &testProviders{
		groq:       llm.NewMockProvider("groq"),
		openrouter: llm.NewMockProvider("openrouter"),
	}
	registry := llm.NewStaticRegistry(ps.groq, ps.openrouter,
		llm.NewMockProvider("gemini"), llm.NewMockProvider("anthropic"))
	router, err := questiongen.NewRouter(questiongen.DefaultRoutingConfig(), registry.IDs())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	policy := llm.NewRetryPolicy(llm.RetryConfig{
		MaxRetries:  1,
		InitialWait: time.Millisecond,
		MaxWait:     2 * time.Millisecond,
		Multiplier:  2,
	})
	orch := questiongen.NewOrchestrator(registry, policy, time.Second)
	return New(router, orch, DefaultConfig(), nil), ps
}

func TestAudit_EmptyBankSkipsProviders(t *testing.T) {
	a, ps := newTestAuditor(t)

	report := a.Audit(context.Background(), nil, "Networks")

	if report.Issues == nil || len(report.Issues) != 0 || report.Degraded {
		t.Fatalf("unexpected report: %+v", report)
	}
	if ps.groq.CallCount()+ps.openrouter.CallCount() != 0 {
		t.Fatal("expected no provider calls for an empty bank")
	}
}

func TestAudit_ProviderReport(t *testing.T) {
	a, ps := newTestAuditor(t)
	ps.groq.AddResponse(llm.MockResponse{Text: "```json\n" + `[
		{"questionIndex": 0, "issueType": "wrong_answer", "description": "Stack is correct but marked wrong.",
		 "suggestedFix": {"question": "Which is LIFO?", "options": ["Queue", "Stack", "Heap", "Tree"], "answer": "Stack", "explanation": "Stacks are LIFO."}},
		{"questionIndex": 1, "issueType": "irrelevant_option", "description": "Option D is off topic.",
		 "suggestedFix": {"question": "Which is FIFO?", "options": ["Queue", "Queue", "Heap", "Tree"], "answer": "Queue", "explanation": "x"}},
		{"questionIndex": 7, "issueType": "formatting", "description": "Out of range."},
		{"questionIndex": 1, "issueType": "formatting", "description": "Null fix.", "suggestedFix": null}
	]` + "\n```"})

	bank := []mcq.Record{validRecord(), validRecord()}
	report := a.Audit(context.Background(), bank, "Data Structures")

	if report.Degraded {
		t.Fatal("expected a provider report, got degraded")
	}
	if len(report.Issues) != 3 {
		t.Fatalf("expected 3 issues (out-of-range dropped), got %+v", report.Issues)
	}
	if report.Issues[0].SuggestedFix == nil || report.Issues[0].SuggestedFix.Answer != "Stack" {
		t.Fatalf("expected valid fix to be kept, got %+v", report.Issues[0].SuggestedFix)
	}
	if report.Issues[1].SuggestedFix != nil {
		t.Fatal("expected fix with duplicate options to be dropped")
	}
	if report.Issues[2].SuggestedFix != nil {
		t.Fatal("expected null fix to read as absent")
	}

	call := ps.groq.Calls[0]
	if call.System == "" || !strings.Contains(call.Prompt, `"Data Structures"`) {
		t.Fatalf("unexpected audit request: %+v", call)
	}
	if call.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("expected audit chain model, got %q", call.Model)
	}
	if call.Temperature != DefaultConfig().Temperature || call.MaxTokens != DefaultConfig().MaxTokens {
		t.Fatalf("expected audit parameters, got %+v", call)
	}
}

func TestAudit_WrappedIssuesObject(t *testing.T) {
	a, ps := newTestAuditor(t)
	ps.groq.AddResponse(llm.MockResponse{Text: `Here is the review: {"issues": [{"questionIndex": 0, "issueType": "missing_answer", "description": "No answer."}]}`})

	report := a.Audit(context.Background(), []mcq.Record{validRecord()}, "")

	if report.Degraded || len(report.Issues) != 1 || report.Issues[0].IssueType != IssueMissingAnswer {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !strings.Contains(ps.groq.Calls[0].Prompt, `"General"`) {
		t.Fatal("expected default topic hint in prompt")
	}
}

func TestAudit_CleanBank(t *testing.T) {
	a, ps := newTestAuditor(t)
	ps.groq.AddResponse(llm.MockResponse{Text: "[]"})

	report := a.Audit(context.Background(), []mcq.Record{validRecord()}, "Go")

	if report.Degraded || report.Issues == nil || len(report.Issues) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestAudit_SchemaInvalidOutputAdvancesChain(t *testing.T) {
	a, ps := newTestAuditor(t)
	ps.groq.AddResponse(llm.MockResponse{Text: `[{"questionIndex": 0, "issueType": "typo", "description": "bad type"}]`})
	ps.openrouter.AddResponse(llm.MockResponse{Text: `[{"questionIndex": 0, "issueType": "formatting", "description": "ok"}]`})

	report := a.Audit(context.Background(), []mcq.Record{validRecord()}, "Go")

	if report.Degraded || len(report.Issues) != 1 || report.Issues[0].Description != "ok" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if ps.groq.CallCount() != 1 {
		t.Fatalf("schema failures must not be retried on the same link, got %d calls", ps.groq.CallCount())
	}
}

func TestAudit_DegradesWhenChainExhausted(t *testing.T) {
	a, ps := newTestAuditor(t)
	ps.groq.AddResponse(llm.MockResponse{Err: &llm.ErrAuth{Provider: "groq", Err: errors.New("401")}})
	// openrouter has no canned responses and fails with ErrServer.

	broken := validRecord()
	broken.Answer = ""
	report := a.Audit(context.Background(), []mcq.Record{validRecord(), broken}, "Go")

	if !report.Degraded {
		t.Fatal("expected degraded report")
	}
	if len(report.Issues) != 1 || report.Issues[0].QuestionIndex != 1 || report.Issues[0].IssueType != IssueMissingAnswer {
		t.Fatalf("expected local checker findings, got %+v", report.Issues)
	}
	if ps.groq.CallCount() != 1 {
		t.Fatalf("auth failure must not be retried, got %d calls", ps.groq.CallCount())
	}
}

func TestAudit_CancelledContextDegrades(t *testing.T) {
	a, ps := newTestAuditor(t)
	ps.groq.AddResponse(llm.MockResponse{Text: "[]"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := a.Audit(ctx, []mcq.Record{validRecord()}, "Go")

	if !report.Degraded || len(report.Issues) != 0 {
		t.Fatalf("expected degraded clean report, got %+v", report)
	}
}
