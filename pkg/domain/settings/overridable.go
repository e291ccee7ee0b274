// Package settings defines the repository setting types shared by every
// configuration level. Scalar settings are wrapped in Overridable so that
// lower-precedence levels can mark them as fixed organization policy.
package settings

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Overridable wraps a setting value together with the policy flag that
// controls whether higher-precedence configuration levels may replace it.
type Overridable[T any] struct {
	Value           T
	OverrideAllowed bool

	// legacy records that the value was parsed from the bare scalar form
	// rather than the structured {value, override_allowed} form.
	legacy bool
}

// Allowed returns a value that higher levels may override.
func Allowed[T any](value T) *Overridable[T] {
	return &Overridable[T]{Value: value, OverrideAllowed: true}
}

// Fixed returns a value that binds all higher levels.
func Fixed[T any](value T) *Overridable[T] {
	return &Overridable[T]{Value: value, OverrideAllowed: false}
}

// CanOverride reports whether higher levels may replace this value.
func (o *Overridable[T]) CanOverride() bool {
	return o.OverrideAllowed
}

// WasLegacy reports whether the value was read from the bare scalar form.
// Strict parsers use this to reject legacy documents.
func (o *Overridable[T]) WasLegacy() bool {
	return o.legacy
}

type overridableDoc[T any] struct {
	Value           *T    `yaml:"value"`
	OverrideAllowed *bool `yaml:"override_allowed"`
}

// UnmarshalYAML accepts both forms:
//
//	setting: {value: true, override_allowed: false}
//	setting: true
//
// The bare form wraps the scalar with override_allowed=true and is flagged
// as legacy. In the structured form override_allowed defaults to true.
func (o *Overridable[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode && hasKey(node, "value") {
		var doc overridableDoc[T]
		if err := node.Decode(&doc); err != nil {
			return fmt.Errorf("decoding overridable value: %w", err)
		}
		if doc.Value == nil {
			return fmt.Errorf("overridable value: missing value key at line %d", node.Line)
		}
		o.Value = *doc.Value
		o.OverrideAllowed = true
		if doc.OverrideAllowed != nil {
			o.OverrideAllowed = *doc.OverrideAllowed
		}
		o.legacy = false
		return nil
	}

	var value T
	if err := node.Decode(&value); err != nil {
		return fmt.Errorf("decoding bare value: %w", err)
	}
	o.Value = value
	o.OverrideAllowed = true
	o.legacy = true
	return nil
}

// MarshalYAML always emits the structured form.
func (o Overridable[T]) MarshalYAML() (any, error) {
	return map[string]any{
		"value":            o.Value,
		"override_allowed": o.OverrideAllowed,
	}, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
