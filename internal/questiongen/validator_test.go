package questiongen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/mcqgen/internal/mcq"
)

func recordJSON(i int) string {
	return fmt.Sprintf(`{"question":"Q%d?","options":["a%d","b%d","c%d","d%d"],"answer":"b%d","explanation":"Because b%d."}`, i, i, i, i, i, i, i)
}

func arrayJSON(n int) json.RawMessage {
	items := make([]string, n)
	for i := range items {
		items[i] = recordJSON(i)
	}
	return json.RawMessage("[" + strings.Join(items, ",") + "]")
}

func TestValidate_Accepts(t *testing.T) {
	records, err := Validate(arrayJSON(3), 3, "groq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1].Answer != "b1" {
		t.Fatalf("unexpected record: %+v", records[1])
	}
}

func TestValidate_TruncatesOverProduction(t *testing.T) {
	records, err := Validate(arrayJSON(8), 5, "groq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
}

func TestValidate_IgnoresInvalidRecordsPastRequested(t *testing.T) {
	raw := json.RawMessage("[" + recordJSON(0) + `,{"question":""}]`)
	records, err := Validate(raw, 1, "groq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestValidate_AcceptsUnderProduction(t *testing.T) {
	records, err := Validate(arrayJSON(2), 10, "groq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantRule  mcq.Rule
		wantIndex int
	}{
		{"object", `{"question":"x"}`, mcq.RuleNotArray, -1},
		{"string element", `["just text"]`, mcq.RuleShape, 0},
		{"numeric options", `[` + recordJSON(0) + `,{"question":"q","options":[1,2,3,4],"answer":"1","explanation":"e"}]`, mcq.RuleShape, 1},
		{"empty question", `[{"question":" ","options":["a","b","c","d"],"answer":"a","explanation":"e"}]`, mcq.RuleEmptyQuestion, 0},
		{"missing question", `[{"options":["a","b","c","d"],"answer":"a","explanation":"e"}]`, mcq.RuleEmptyQuestion, 0},
		{"two options", `[{"question":"q","options":["a","b"],"answer":"a","explanation":"e"}]`, mcq.RuleOptionCount, 0},
		{"duplicate options", `[{"question":"q","options":["a","b","a ","d"],"answer":"a","explanation":"e"}]`, mcq.RuleDuplicateOptions, 0},
		{"missing answer", `[{"question":"q","options":["a","b","c","d"],"explanation":"e"}]`, mcq.RuleMissingAnswer, 0},
		{"answer outside options", `[{"question":"q","options":["a","b","c","d"],"answer":"e","explanation":"e"}]`, mcq.RuleAnswerNotInOptions, 0},
		{"empty explanation", `[{"question":"q","options":["a","b","c","d"],"answer":"a","explanation":""}]`, mcq.RuleEmptyExplanation, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(json.RawMessage(tt.raw), 10, "openrouter")
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected SchemaError, got %T (%v)", err, err)
			}
			if se.Rule != tt.wantRule {
				t.Fatalf("rule = %s, want %s", se.Rule, tt.wantRule)
			}
			if se.Index != tt.wantIndex {
				t.Fatalf("index = %d, want %d", se.Index, tt.wantIndex)
			}
			if se.Provider != "openrouter" {
				t.Fatalf("provider = %q", se.Provider)
			}
		})
	}
}
