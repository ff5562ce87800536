package audit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/mcqgen/internal/mcq"
)

const systemPrompt = `You are Quizapo AI, a meticulous reviewer of multiple-choice question banks.
ALWAYS return ONLY valid JSON. No markdown. No explanation text outside the JSON.`

// indexedRecord pins each question to its bank position in the prompt.
type indexedRecord struct {
	Index int `json:"index"`
	mcq.Record
}

// composePrompt builds the review prompt for bank. Like the generation
// prompt it is a pure function of its inputs.
func composePrompt(bank []mcq.Record, topicHint string) (string, error) {
	indexed := make([]indexedRecord, len(bank))
	for i, r := range bank {
		indexed[i] = indexedRecord{Index: i, Record: r}
	}
	payload, err := json.MarshalIndent(indexed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal bank: %w", err)
	}

	topic := strings.TrimSpace(topicHint)
	if topic == "" {
		topic = "General"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Review this bank of %d multiple-choice questions about %q for defects.\n\n", len(bank), topic)
	b.WriteString("Look for:\n")
	b.WriteString("- wrong_answer: the marked answer is factually incorrect\n")
	b.WriteString("- irrelevant_option: an option is unrelated to the question or the topic\n")
	b.WriteString("- formatting: empty or malformed text, or an answer that is not one of the options\n")
	b.WriteString("- duplicate_options: two options say the same thing\n")
	b.WriteString("- missing_answer: no answer is marked\n\n")

	b.WriteString("Output a single JSON array of issues. Each item has this format:\n")
	b.WriteString(issueFormat)
	b.WriteString("questionIndex is the \"index\" of the question below. Include suggestedFix only when you can\n")
	b.WriteString("provide a complete corrected question with exactly 4 unique options and an answer equal to one of them.\n")
	b.WriteString("If the bank has no defects, output [].\n\n")

	b.WriteString("Questions:\n")
	b.Write(payload)
	b.WriteString("\n")

	return b.String(), nil
}

const issueFormat = `{
  "questionIndex": 0,
  "issueType": "wrong_answer | irrelevant_option | formatting | duplicate_options | missing_answer",
  "description": "one sentence",
  "suggestedFix": {"question": "string", "options": ["A", "B", "C", "D"], "answer": "exact option text", "explanation": "string"}
}
`
