package render

import (
	"strings"
	"testing"

	"github.com/abhisek/mcqgen/internal/audit"
	"github.com/abhisek/mcqgen/internal/mcq"
	"github.com/abhisek/mcqgen/internal/questiongen"
)

func sample() mcq.Record {
	return mcq.Record{
		Question:    "Which port does HTTPS use?",
		Options:     []string{"21", "80", "443", "8080"},
		Answer:      "443",
		Explanation: "HTTPS defaults to port 443.",
	}
}

func TestQuestion(t *testing.T) {
	out := Question(2, sample())

	for _, want := range []string{"3. Which port does HTTPS use?", "A)  21", "C)  443", "✓", "HTTPS defaults to port 443."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "✓") != 1 {
		t.Errorf("expected exactly one answer mark:\n%s", out)
	}
}

func TestResult(t *testing.T) {
	res := &questiongen.Result{
		Questions: []mcq.Record{sample()},
		Provider:  "groq",
		Model:     "llama-3.3-70b-versatile",
		Requested: 2,
		Partial:   true,
	}

	out := Result(res)

	for _, want := range []string{"1 of 2 questions from groq (llama-3.3-70b-versatile)", "partial", "1. Which port"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReport(t *testing.T) {
	fix := sample()
	report := audit.Report{
		Issues: []audit.Issue{
			{QuestionIndex: 0, IssueType: audit.IssueWrongAnswer, Description: "Marked answer is wrong.", SuggestedFix: &fix},
		},
		Degraded: true,
	}

	out := Report(report, []mcq.Record{sample()})

	for _, want := range []string{"1 issues in 1 questions", "local checks only", "wrong_answer", "Marked answer is wrong.", "Suggested fix:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReport_Clean(t *testing.T) {
	out := Report(audit.Report{Issues: []audit.Issue{}}, []mcq.Record{sample()})
	if !strings.Contains(out, "No issues found.") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "local checks only") {
		t.Errorf("clean LLM report should not be marked degraded:\n%s", out)
	}
}

func TestReport_IndexOutsideBank(t *testing.T) {
	report := audit.Report{Issues: []audit.Issue{
		{QuestionIndex: -1, IssueType: audit.IssueFormatting, Description: "Negative index."},
		{QuestionIndex: 5, IssueType: audit.IssueFormatting, Description: "Past the end."},
	}}

	out := Report(report, []mcq.Record{sample()})

	for _, want := range []string{"Negative index.", "Past the end."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Which port does HTTPS use?") {
		t.Errorf("out-of-range issues should not quote a bank question:\n%s", out)
	}
}
