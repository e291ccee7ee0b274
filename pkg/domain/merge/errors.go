package merge

import (
	"fmt"
	"strings"
)

// OverrideViolation records one attempt to override a fixed value.
type OverrideViolation struct {
	FieldPath   string
	Attempted   string
	Protected   string
	ProtectedBy Source
	AttemptedBy Source
}

func (v OverrideViolation) String() string {
	return fmt.Sprintf("%s: %s level cannot override value %q fixed at %s level (attempted %q)",
		v.FieldPath, v.AttemptedBy, v.Protected, v.ProtectedBy, v.Attempted)
}

// OverrideError aggregates every override violation found during a merge.
// The merge result accompanying the error is fully populated: protected
// fields retain their protecting values.
type OverrideError struct {
	Violations []OverrideViolation
}

func (e *OverrideError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "override not permitted for %d field(s):", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}
