package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaMismatch indicates an extraction result does not follow the
// template's field layout.
var ErrSchemaMismatch = errors.New("extraction result does not match template structure")

// ValidateShape checks that result mirrors the template's structure: same
// object keys at every level, no additions, arrays where the template has
// arrays. Leaf values are not checked; the model fills those in.
//
// Validation is opt-in at the pipeline level. By default whatever the model
// returns under instruction is accepted as-is.
func ValidateShape(tmpl map[string]any, result map[string]any) error {
	doc, err := json.Marshal(deriveSchema(tmpl))
	if err != nil {
		return fmt.Errorf("failed to derive schema from template: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("template.json", bytes.NewReader(doc)); err != nil {
		return fmt.Errorf("failed to add derived schema: %w", err)
	}
	sch, err := compiler.Compile("template.json")
	if err != nil {
		return fmt.Errorf("failed to compile derived schema: %w", err)
	}

	// jsonschema validates plain decoded JSON values, which is what the
	// parser hands back.
	var v any = toJSONValue(result)
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return nil
}

// deriveSchema builds a JSON Schema mirroring the template's shape.
// Object nodes require exactly the template's keys; array nodes only
// require an array; scalar leaves accept anything.
func deriveSchema(node any) map[string]any {
	switch n := node.(type) {
	case map[string]any:
		properties := make(map[string]any, len(n))
		required := make([]string, 0, len(n))
		for key, child := range n {
			properties[key] = deriveSchema(child)
			required = append(required, key)
		}
		schema := map[string]any{
			"type":                 "object",
			"properties":           properties,
			"additionalProperties": false,
		}
		if len(required) > 0 {
			schema["required"] = required
		}
		return schema
	case []any:
		return map[string]any{"type": "array"}
	default:
		// Scalar leaf: the model may return any value here.
		return map[string]any{}
	}
}

// toJSONValue round-trips v through encoding/json semantics so the validator
// sees canonical types regardless of how the value was constructed.
func toJSONValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}
