package audit

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/abhisek/mcqgen/internal/mcq"
)

// auditResponse is the shape the model is asked to produce. A bare array of
// issues is wrapped into it before validation.
type auditResponse struct {
	Issues []Issue `json:"issues" jsonschema:"required"`
}

// reportSchema is reflected from auditResponse once at init.
var reportSchema = mustReflectSchema[auditResponse]("audit-report")

// reflectSchema derives a JSON Schema from T's struct tags.
func reflectSchema[T any](name string) (*mcq.Schema, error) {
	// Additional properties are allowed since models add commentary fields.
	// Only tagged fields are required, so a partial suggestedFix is dropped
	// later instead of failing the whole report.
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
		Anonymous:                  true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal reflected schema: %w", err)
	}
	var def map[string]any
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode reflected schema: %w", err)
	}
	delete(def, "$schema")

	return &mcq.Schema{Name: name, Definition: def}, nil
}

func mustReflectSchema[T any](name string) *mcq.Schema {
	s, err := reflectSchema[T](name)
	if err != nil {
		panic(err)
	}
	return s
}
