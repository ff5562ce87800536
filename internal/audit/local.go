package audit

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/mcqgen/internal/mcq"
)

// LocalCheck runs the deterministic rule checker over bank. Findings are
// ordered by question index, then by rule.
func LocalCheck(bank []mcq.Record) []Issue {
	issues := []Issue{}
	for i, q := range bank {
		issues = append(issues, checkRecord(i, q)...)
	}
	return issues
}

func checkRecord(idx int, q mcq.Record) []Issue {
	var issues []Issue
	add := func(t IssueType, desc string) {
		issues = append(issues, Issue{QuestionIndex: idx, IssueType: t, Description: desc})
	}

	switch {
	case strings.TrimSpace(q.Answer) == "":
		add(IssueMissingAnswer, "This question does not have a selected answer.")
	case !lo.Contains(q.Options, q.Answer):
		add(IssueFormatting, "The selected answer is not one of the provided options.")
	}

	if mcq.HasDuplicateOptions(q.Options) {
		add(IssueDuplicateOptions, "There are duplicate options in this question.")
	}

	if strings.TrimSpace(q.Question) == "" {
		add(IssueFormatting, "Question text is empty.")
	}

	if len(q.Options) != mcq.OptionCount {
		add(IssueFormatting, fmt.Sprintf("Question has %d options; expected %d.", len(q.Options), mcq.OptionCount))
	}

	if strings.TrimSpace(q.Explanation) == "" {
		add(IssueFormatting, "Explanation is empty.")
	}

	return issues
}
