package settings

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestOverridableStructuredForm(t *testing.T) {
	var doc struct {
		Wiki *Overridable[bool] `yaml:"wiki"`
	}
	input := "wiki:\n  value: true\n  override_allowed: false\n"
	if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Wiki == nil {
		t.Fatal("expected wiki to be set")
	}
	if !doc.Wiki.Value {
		t.Error("expected value true")
	}
	if doc.Wiki.CanOverride() {
		t.Error("expected override_allowed false")
	}
	if doc.Wiki.WasLegacy() {
		t.Error("structured form should not be flagged legacy")
	}
}

func TestOverridableStructuredFormDefaultsOverrideAllowed(t *testing.T) {
	var doc struct {
		Wiki *Overridable[bool] `yaml:"wiki"`
	}
	if err := yaml.Unmarshal([]byte("wiki:\n  value: false\n"), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !doc.Wiki.CanOverride() {
		t.Error("override_allowed should default to true when omitted")
	}
}

func TestOverridableBareForm(t *testing.T) {
	var doc struct {
		Branch *Overridable[string] `yaml:"default_branch"`
		Count  *Overridable[int]    `yaml:"reviews"`
	}
	input := "default_branch: main\nreviews: 2\n"
	if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Branch.Value != "main" {
		t.Errorf("expected main, got %q", doc.Branch.Value)
	}
	if !doc.Branch.CanOverride() {
		t.Error("bare form must wrap with override_allowed true")
	}
	if !doc.Branch.WasLegacy() {
		t.Error("bare form must be flagged legacy")
	}
	if doc.Count.Value != 2 {
		t.Errorf("expected 2, got %d", doc.Count.Value)
	}
}

func TestOverridableAbsentFieldStaysNil(t *testing.T) {
	var doc struct {
		Wiki   *Overridable[bool] `yaml:"wiki"`
		Issues *Overridable[bool] `yaml:"issues"`
	}
	if err := yaml.Unmarshal([]byte("wiki: true\n"), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Issues != nil {
		t.Error("absent field must stay nil, not default to false")
	}
}

func TestOverridableMissingValueKey(t *testing.T) {
	var doc struct {
		Wiki *Overridable[bool] `yaml:"wiki"`
	}
	err := yaml.Unmarshal([]byte("wiki:\n  override_allowed: false\n"), &doc)
	if err == nil {
		t.Fatal("expected error for structured form without value key")
	}
}

func TestOverridableMarshalRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(struct {
		Wiki *Overridable[bool] `yaml:"wiki"`
	}{Wiki: Fixed(true)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc struct {
		Wiki *Overridable[bool] `yaml:"wiki"`
	}
	if err := yaml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Wiki.CanOverride() {
		t.Error("round trip lost the fixed policy")
	}
	if !doc.Wiki.Value {
		t.Error("round trip lost the value")
	}
}

func TestConstructors(t *testing.T) {
	if !Allowed(42).CanOverride() {
		t.Error("Allowed must permit override")
	}
	if Fixed("main").CanOverride() {
		t.Error("Fixed must prohibit override")
	}
}
