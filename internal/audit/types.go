// Package audit reviews an existing question bank for defects. It asks an
// LLM first and falls back to deterministic local rules when no provider
// answers.
package audit

import "github.com/abhisek/mcqgen/internal/mcq"

// IssueType classifies an audit finding.
type IssueType string

const (
	IssueWrongAnswer      IssueType = "wrong_answer"
	IssueIrrelevantOption IssueType = "irrelevant_option"
	IssueFormatting       IssueType = "formatting"
	IssueDuplicateOptions IssueType = "duplicate_options"
	IssueMissingAnswer    IssueType = "missing_answer"
)

// Issue is one finding against a question in the bank.
type Issue struct {
	// QuestionIndex is the 0-based position of the question in the bank.
	QuestionIndex int       `json:"questionIndex" jsonschema:"required"`
	IssueType     IssueType `json:"issueType" jsonschema:"required,enum=wrong_answer,enum=irrelevant_option,enum=formatting,enum=duplicate_options,enum=missing_answer"`
	Description   string    `json:"description" jsonschema:"required"`

	// SuggestedFix is a full replacement record. It is only kept when it
	// satisfies every record invariant.
	SuggestedFix *mcq.Record `json:"suggestedFix,omitempty"`
}

// Report is the outcome of an audit. An empty Issues list means the bank
// looked clean.
type Report struct {
	Issues []Issue `json:"issues"`

	// Degraded is set when no provider answered and the local rule checker
	// produced the report.
	Degraded bool `json:"degraded"`
}
