// Package render formats question banks and audit reports for the terminal.
package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mcqgen/internal/audit"
	"github.com/abhisek/mcqgen/internal/mcq"
	"github.com/abhisek/mcqgen/internal/questiongen"
	"github.com/abhisek/mcqgen/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// Question renders one record with its options. The option equal to the
// answer is highlighted and marked.
func Question(index int, q mcq.Record) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("%d. %s", index+1, q.Question)))
	b.WriteString("\n")

	for i, opt := range q.Options {
		label := "?"
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		line := fmt.Sprintf("  %s)  %s", label, opt)
		if opt == q.Answer {
			b.WriteString(theme.Correct.Render(line + "  ✓"))
		} else {
			b.WriteString(theme.Body.Render(line))
		}
		b.WriteString("\n")
	}

	if q.Explanation != "" {
		b.WriteString(theme.Hint.Render("  " + q.Explanation))
		b.WriteString("\n")
	}
	return b.String()
}

// Result renders a generated batch with a one-line summary header.
func Result(res *questiongen.Result) string {
	var b strings.Builder

	summary := fmt.Sprintf("%d of %d questions from %s", len(res.Questions), res.Requested, res.Provider)
	if res.Model != "" {
		summary += " (" + res.Model + ")"
	}
	b.WriteString(theme.Label.Render(summary))
	if res.Partial {
		b.WriteString("  " + theme.Degraded.Render("partial"))
	}
	b.WriteString("\n\n")

	for i, q := range res.Questions {
		b.WriteString(Question(i, q))
		b.WriteString("\n")
	}
	return b.String()
}

// Report renders an audit report against the bank it was produced for.
func Report(report audit.Report, bank []mcq.Record) string {
	var b strings.Builder

	header := fmt.Sprintf("%d issues in %d questions", len(report.Issues), len(bank))
	b.WriteString(theme.Label.Render(header))
	if report.Degraded {
		b.WriteString("  " + theme.Degraded.Render("local checks only"))
	}
	b.WriteString("\n\n")

	if len(report.Issues) == 0 {
		b.WriteString(theme.Correct.Render("No issues found."))
		b.WriteString("\n")
		return b.String()
	}

	for _, issue := range report.Issues {
		lines := []string{
			theme.Incorrect.Render(fmt.Sprintf("#%d  %s", issue.QuestionIndex+1, issue.IssueType)),
			theme.Body.Render(issue.Description),
		}
		if issue.QuestionIndex >= 0 && issue.QuestionIndex < len(bank) {
			lines = append(lines, theme.Hint.Render(bank[issue.QuestionIndex].Question))
		}
		if issue.SuggestedFix != nil {
			lines = append(lines, theme.Fix.Render("Suggested fix:"), Question(issue.QuestionIndex, *issue.SuggestedFix))
		}
		b.WriteString(theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
		b.WriteString("\n")
	}
	return b.String()
}
