package settings

import "fmt"

// Visibility is a repository visibility level.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityInternal Visibility = "internal"
)

// ValidVisibilities lists every accepted visibility.
func ValidVisibilities() []Visibility {
	return []Visibility{VisibilityPublic, VisibilityPrivate, VisibilityInternal}
}

// IsValid reports whether v is a known visibility.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityInternal:
		return true
	}
	return false
}

// IsPrivate reports whether repositories with this visibility are hidden
// from the public. Internal counts as private.
func (v Visibility) IsPrivate() bool {
	return v == VisibilityPrivate || v == VisibilityInternal
}

func (v Visibility) String() string { return string(v) }

// VisibilityPolicy constrains which visibilities an organization permits.
type VisibilityPolicy struct {
	// Required forces every repository to this visibility when set.
	Required Visibility `yaml:"required,omitempty"`
	// Restricted lists the permitted visibilities when Required is empty.
	// Empty means unrestricted.
	Restricted []Visibility `yaml:"restricted,omitempty"`
}

// Allows reports whether the policy permits the visibility.
func (p *VisibilityPolicy) Allows(v Visibility) bool {
	if p.Required != "" {
		return v == p.Required
	}
	if len(p.Restricted) == 0 {
		return true
	}
	for _, allowed := range p.Restricted {
		if allowed == v {
			return true
		}
	}
	return false
}

// Check returns an error describing why the visibility is not permitted,
// or nil when it is.
func (p *VisibilityPolicy) Check(v Visibility) error {
	if !v.IsValid() {
		return fmt.Errorf("unknown visibility %q", v)
	}
	if p.Allows(v) {
		return nil
	}
	if p.Required != "" {
		return fmt.Errorf("organization policy requires %q visibility, got %q", p.Required, v)
	}
	return fmt.Errorf("visibility %q is not permitted by organization policy", v)
}
