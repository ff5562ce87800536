package questiongen

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/abhisek/mcqgen/internal/mcq"
)

// SchemaError describes why a recovered candidate broke the record contract.
type SchemaError struct {
	Index    int // -1 when the candidate as a whole is rejected
	Rule     mcq.Rule
	Provider string
	Detail   string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("%s: invalid MCQ output (rule %s)", e.Provider, e.Rule)
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s at index %d", msg, e.Index)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Validate checks a sanitized candidate against the record contract. The
// candidate must be an array; elements past requested are dropped before
// checking. The first violating element fails the whole candidate. Fewer
// elements than requested is not an error.
func Validate(candidate json.RawMessage, requested int, provider string) ([]mcq.Record, error) {
	root := gjson.ParseBytes(candidate)
	if !root.IsArray() {
		return nil, &SchemaError{Index: -1, Rule: mcq.RuleNotArray, Provider: provider}
	}

	elems := root.Array()
	if len(elems) > requested {
		elems = elems[:requested]
	}

	records := make([]mcq.Record, 0, len(elems))
	for i, elem := range elems {
		raw := json.RawMessage(elem.Raw)
		if err := mcq.RecordShape.Validate(raw); err != nil {
			return nil, &SchemaError{Index: i, Rule: mcq.RuleShape, Provider: provider, Detail: err.Error()}
		}

		var r mcq.Record
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, &SchemaError{Index: i, Rule: mcq.RuleShape, Provider: provider, Detail: err.Error()}
		}
		if v := mcq.Check(r); v != nil {
			return nil, &SchemaError{Index: i, Rule: v.Rule, Provider: provider, Detail: v.Detail}
		}
		records = append(records, r)
	}

	return records, nil
}
