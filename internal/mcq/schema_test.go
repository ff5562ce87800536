package mcq

import (
	"encoding/json"
	"testing"
)

func TestRecordShape(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", oneRecord, false},
		{"missing fields are left to the rules", `{"question":"a"}`, false},
		{"not an object", `"a question"`, true},
		{"numeric answer", `{"question":"a","options":["1","2","3","4"],"answer":1,"explanation":"e"}`, true},
		{"options not strings", `{"question":"a","options":[1,2,3,4],"answer":"1","explanation":"e"}`, true},
		{"options not array", `{"question":"a","options":"1,2,3,4","answer":"1","explanation":"e"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RecordShape.Validate(json.RawMessage(tt.raw))
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSchema_InvalidJSON(t *testing.T) {
	if err := RecordShape.Validate(json.RawMessage(`{`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestSchema_CompileCached(t *testing.T) {
	s := &Schema{Name: "cache-test", Definition: map[string]any{"type": "array"}}
	if err := s.Validate(json.RawMessage(`[]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := schemaCache.Load("cache-test"); !ok {
		t.Fatal("expected compiled schema in cache")
	}
}
