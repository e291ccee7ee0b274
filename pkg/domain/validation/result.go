// Package validation checks level configurations and merged results
// against schema, business, and security policy rules. Violations are
// collected, never short-circuited, and split into blocking errors and
// advisory warnings.
package validation

import "fmt"

// Kind classifies a validation issue.
type Kind string

const (
	KindSchemaViolation       Kind = "schema_violation"
	KindRequiredFieldMissing  Kind = "required_field_missing"
	KindInvalidValue          Kind = "invalid_value"
	KindBusinessRuleViolation Kind = "business_rule_violation"
	KindOverrideNotAllowed    Kind = "override_not_allowed"
)

// Issue is a blocking validation error.
type Issue struct {
	Kind       Kind
	FieldPath  string
	Message    string
	Suggestion string
}

func (i Issue) String() string {
	if i.Suggestion != "" {
		return fmt.Sprintf("[%s] %s: %s (%s)", i.Kind, i.FieldPath, i.Message, i.Suggestion)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Kind, i.FieldPath, i.Message)
}

// Warning is an advisory finding that does not block provisioning.
type Warning struct {
	FieldPath      string
	Message        string
	Recommendation string
}

func (w Warning) String() string {
	if w.Recommendation != "" {
		return fmt.Sprintf("%s: %s (%s)", w.FieldPath, w.Message, w.Recommendation)
	}
	return fmt.Sprintf("%s: %s", w.FieldPath, w.Message)
}

// Result collects the findings of one validation run.
type Result struct {
	Errors   []Issue
	Warnings []Warning
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{}
}

// Valid reports whether no blocking errors were found. Warnings do not
// affect validity.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// AddError appends a blocking error.
func (r *Result) AddError(issue Issue) {
	r.Errors = append(r.Errors, issue)
}

// AddWarning appends an advisory warning.
func (r *Result) AddWarning(warning Warning) {
	r.Warnings = append(r.Warnings, warning)
}

// Merge appends the findings of another result.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// ErrorsOfKind returns the blocking errors with the given kind.
func (r *Result) ErrorsOfKind(kind Kind) []Issue {
	var out []Issue
	for _, issue := range r.Errors {
		if issue.Kind == kind {
			out = append(out, issue)
		}
	}
	return out
}
