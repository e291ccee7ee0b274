package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// templateSchema constrains the shape of a template document before it is
// decoded into typed configuration. Settings sections are shape-checked by
// the typed decoder; the schema guards the template envelope.
const templateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["template"],
  "properties": {
    "template": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "description": {"type": "string"},
        "author": {"type": "string"},
        "tags": {"type": "array", "items": {"type": "string"}}
      }
    },
    "repository_type": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"type": "string", "minLength": 1},
        "policy": {"type": "string", "enum": ["fixed", "preferable"]}
      }
    },
    "variables": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "description": {"type": "string"},
          "example": {"type": "string"},
          "required": {"type": "boolean"},
          "pattern": {"type": "string"},
          "min_length": {"type": "integer", "minimum": 0},
          "max_length": {"type": "integer", "minimum": 0},
          "options": {"type": "array", "items": {"type": "string"}},
          "default": {"type": "string"}
        }
      }
    },
    "default_visibility": {
      "type": "string",
      "enum": ["public", "private", "internal"]
    }
  }
}`

// ValidateTemplateDocument checks a raw template YAML document against the
// template schema.
func ValidateTemplateDocument(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse template document: %w", err)
	}
	jsonDoc, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return fmt.Errorf("failed to convert template document: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(templateSchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return fmt.Errorf("template schema validation failed: %w", err)
	}
	if !result.Valid() {
		var issues []string
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return fmt.Errorf("template document invalid: %s", strings.Join(issues, "; "))
	}
	return nil
}

// normalizeYAML rewrites yaml.v3's map[any]any values into map[string]any
// so the document can be marshalled as JSON.
func normalizeYAML(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[fmt.Sprint(key)] = normalizeYAML(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
