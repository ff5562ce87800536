package mcq

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Rule names a record invariant.
type Rule string

const (
	RuleNotArray           Rule = "not_array"
	RuleShape              Rule = "shape"
	RuleEmptyQuestion      Rule = "empty_question"
	RuleOptionCount        Rule = "option_count"
	RuleDuplicateOptions   Rule = "duplicate_options"
	RuleMissingAnswer      Rule = "missing_answer"
	RuleAnswerNotInOptions Rule = "answer_not_in_options"
	RuleEmptyExplanation   Rule = "empty_explanation"
)

// Violation is a broken record invariant.
type Violation struct {
	Rule   Rule
	Detail string
}

func (v *Violation) Error() string {
	if v.Detail == "" {
		return string(v.Rule)
	}
	return fmt.Sprintf("%s: %s", v.Rule, v.Detail)
}

// Check returns the first invariant r violates, or nil. Rules run in a fixed
// order so the reported rule is deterministic.
func Check(r Record) *Violation {
	if strings.TrimSpace(r.Question) == "" {
		return &Violation{Rule: RuleEmptyQuestion}
	}
	if len(r.Options) != OptionCount {
		return &Violation{
			Rule:   RuleOptionCount,
			Detail: fmt.Sprintf("got %d options, want %d", len(r.Options), OptionCount),
		}
	}
	if HasDuplicateOptions(r.Options) {
		return &Violation{Rule: RuleDuplicateOptions}
	}
	if strings.TrimSpace(r.Answer) == "" {
		return &Violation{Rule: RuleMissingAnswer}
	}
	if !lo.Contains(r.Options, r.Answer) {
		return &Violation{
			Rule:   RuleAnswerNotInOptions,
			Detail: fmt.Sprintf("answer %q", r.Answer),
		}
	}
	if strings.TrimSpace(r.Explanation) == "" {
		return &Violation{Rule: RuleEmptyExplanation}
	}
	return nil
}

// Valid reports whether r satisfies every record invariant.
func Valid(r Record) bool {
	return Check(r) == nil
}

// HasDuplicateOptions reports whether two options are equal after trimming
// surrounding whitespace.
func HasDuplicateOptions(options []string) bool {
	trimmed := lo.Map(options, func(o string, _ int) string {
		return strings.TrimSpace(o)
	})
	return len(lo.Uniq(trimmed)) != len(trimmed)
}
