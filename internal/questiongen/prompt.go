package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are Quizapo AI, an exam setter that writes multiple-choice questions.
ALWAYS return ONLY valid JSON. No markdown. No explanation text outside the JSON.`

// Compose builds the user prompt for req. It is a pure function of the
// normalized request: equal requests always yield byte-identical text.
// An attached image is announced but its bytes travel as an attachment.
func Compose(req Request) string {
	req = req.Normalize()

	var b strings.Builder

	b.WriteString("Inputs:\n")
	fmt.Fprintf(&b, "- topic: %q\n", req.Topic)
	fmt.Fprintf(&b, "- difficulty: %q\n", req.Difficulty)
	fmt.Fprintf(&b, "- taxonomy: %q\n", req.Taxonomy)
	fmt.Fprintf(&b, "- questions: %d\n", req.QuestionCount)
	fmt.Fprintf(&b, "- studyMaterial: %q\n", req.SourceMaterial)
	fmt.Fprintf(&b, "- image provided: %t\n", req.HasImage())

	b.WriteString("\nRules:\n")
	fmt.Fprintf(&b, "1) Content provided: %s.\n", contentSource(req))
	b.WriteString("   If content is provided, generate questions STRICTLY from it. Do not use outside knowledge.\n")
	b.WriteString("2) If no content is provided, use general knowledge of the topic.\n")
	fmt.Fprintf(&b, "3) If topic and content are both empty, generate %s questions.\n", DefaultSubject)
	fmt.Fprintf(&b, "4) Output EXACTLY %d questions.\n", req.QuestionCount)
	b.WriteString("5) The final output MUST be a single JSON array and nothing else.\n")
	b.WriteString("6) Each item has this format:\n")
	b.WriteString(recordFormat)
	b.WriteString("7) The 4 options must be unique, and answer must match one option exactly.\n")
	fmt.Fprintf(&b, "8) Match the %s difficulty and the %s level of Bloom's taxonomy.\n", req.Difficulty, req.Taxonomy)

	b.WriteString("\nGenerate now.")

	return b.String()
}

const recordFormat = `{
  "question": "string",
  "options": ["A", "B", "C", "D"],
  "answer": "exact option text",
  "explanation": "at most 30 words"
}
`

func contentSource(req Request) string {
	switch {
	case req.HasImage() && strings.TrimSpace(req.SourceMaterial) != "":
		return "the provided image and study material"
	case req.HasImage():
		return "the provided image"
	case strings.TrimSpace(req.SourceMaterial) != "":
		return "the provided study material"
	default:
		return "none"
	}
}
