package validation

import (
	"path"

	"github.com/felixgeelhaar/repoforge/pkg/domain/merge"
)

// Rule is a custom validation rule. Pattern is a glob matched against the
// field paths of the merged trace; Check runs once per matching path and
// returns nil when the rule passes.
type Rule struct {
	Pattern     string
	Description string
	Check       func(cfg *merge.Merged, fieldPath string) *Issue
}

// Matches reports whether the rule applies to a field path. A malformed
// pattern matches nothing.
func (r Rule) Matches(fieldPath string) bool {
	ok, err := path.Match(r.Pattern, fieldPath)
	return err == nil && ok
}
