package mcq

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// wrapperKeys are the object keys models commonly nest the array under,
// in lookup order.
var wrapperKeys = []string{"questions", "mcqs", "items", "data", "issues"}

// ParseError means no valid JSON could be recovered from the model output.
type ParseError struct {
	Snippet string // Leading part of the cleaned text, for logs.
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable model output %q: %v", e.Snippet, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Sanitize recovers JSON from raw model text. It strips markdown code fences,
// repairs an array truncated mid-element by cutting back to the last complete
// element, and unwraps an array nested under a known wrapper key. It only
// ever removes text, never adds content beyond closing brackets.
func Sanitize(raw string) (json.RawMessage, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, &ParseError{Err: fmt.Errorf("empty output")}
	}

	candidate, ok := recoverJSON(cleaned)
	if !ok {
		// Leading prose before the JSON value.
		if start := strings.IndexAny(cleaned, "[{"); start > 0 {
			candidate, ok = recoverJSON(cleaned[start:])
		}
	}
	if !ok {
		return nil, &ParseError{
			Snippet: snippet(cleaned),
			Err:     fmt.Errorf("no valid JSON prefix found"),
		}
	}

	return unwrap(candidate), nil
}

// recoverJSON returns s when it is valid JSON, or the longest truncation repair.
func recoverJSON(s string) (string, bool) {
	if gjson.Valid(s) {
		return s, true
	}
	switch s[0] {
	case '[':
		return repairTruncated(s, "]")
	case '{':
		return repairTruncated(s, "]}")
	}
	return "", false
}

// repairTruncated walks back over '}' boundaries from the end, cutting after
// each and appending closer, and returns the first candidate that parses.
func repairTruncated(s, closer string) (string, bool) {
	end := len(s)
	for {
		i := strings.LastIndexByte(s[:end], '}')
		if i < 0 {
			return "", false
		}
		candidate := s[:i+1] + closer
		if gjson.Valid(candidate) {
			return candidate, true
		}
		end = i
	}
}

// unwrap returns the array held under a wrapper key when the top-level value
// is an object; anything else is returned unchanged.
func unwrap(s string) json.RawMessage {
	root := gjson.Parse(s)
	if !root.IsObject() {
		return json.RawMessage(s)
	}
	for _, key := range wrapperKeys {
		if v := root.Get(key); v.IsArray() {
			return json.RawMessage(v.Raw)
		}
	}
	return json.RawMessage(s)
}

// stripCodeFences removes a leading ``` or ```json fence (any case) and a
// trailing ``` fence.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func snippet(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
