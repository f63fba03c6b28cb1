package completion

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/metalagman/brandcraft/internal/pipeline"
)

// JSONSchema renders the declared output fields as a draft-07 JSON Schema
// for a single object.
func JSONSchema(fields []pipeline.FieldSpec) string {
	doc := objectSchema(fields)
	doc["$schema"] = "http://json-schema.org/draft-07/schema#"
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Only built from strings, maps and slices.
		panic(fmt.Sprintf("completion: marshal schema: %v", err))
	}
	return string(out)
}

func objectSchema(fields []pipeline.FieldSpec) map[string]any {
	props := make(map[string]any, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f.Name] = fieldSchema(f)
		required = append(required, f.Name)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func fieldSchema(f pipeline.FieldSpec) map[string]any {
	var s map[string]any
	switch f.Type {
	case pipeline.TypeString:
		s = map[string]any{"type": "string"}
	case pipeline.TypeEnum:
		s = map[string]any{"type": "string", "enum": f.Enum}
	case pipeline.TypeInt:
		s = map[string]any{"type": "integer"}
	case pipeline.TypeStringList:
		s = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	case pipeline.TypeObjectList:
		s = map[string]any{"type": "array", "items": objectSchema(f.Items)}
	default:
		s = map[string]any{}
	}
	if f.Description != "" {
		s["description"] = f.Description
	}
	return s
}

// Instructions combines the agent persona with the response contract.
func Instructions(req pipeline.CompletionRequest) string {
	var b strings.Builder
	if req.System != "" {
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}
	b.WriteString("Respond with a single JSON object and nothing else. ")
	b.WriteString("The object must conform to this JSON Schema:\n")
	b.WriteString(JSONSchema(req.Schema))
	return b.String()
}
