package mcq

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema definition. Compiled forms are cached by
// name, so a name must always refer to the same definition.
type Schema struct {
	Name       string
	Definition map[string]any
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// RecordShape is the structural check applied to each candidate element
// before the record rules run. It only constrains types; missing or empty
// fields are left for Check to report.
var RecordShape = &Schema{
	Name: "mcq-record-shape",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":    map[string]any{"type": "string"},
			"options":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"answer":      map[string]any{"type": "string"},
			"explanation": map[string]any{"type": "string"},
		},
	},
}

// Validate checks raw JSON against the schema.
func (s *Schema) Validate(raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return s.ValidateValue(parsed)
}

// ValidateValue checks an already decoded JSON value against the schema.
func (s *Schema) ValidateValue(v any) error {
	compiled, err := s.compiled()
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", s.Name, err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// compiled returns a cached compiled schema or compiles and caches it.
func (s *Schema) compiled() (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value (any), not raw bytes.
	// Marshal then unmarshal to get a clean any representation.
	defBytes, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", s.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(s.Name, compiled)
	return compiled, nil
}
