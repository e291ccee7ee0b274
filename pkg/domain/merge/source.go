// Package merge implements the four-level configuration fold: global
// defaults, repository type, team, and template, in ascending precedence,
// with per-field override policy enforcement and source tracing.
package merge

// Source identifies the hierarchy level a resolved field came from.
type Source int

const (
	SourceGlobal Source = iota + 1
	SourceRepositoryType
	SourceTeam
	SourceTemplate
)

// Precedence returns the numeric rank; higher ranks win.
func (s Source) Precedence() int {
	return int(s)
}

// Overrides reports whether s takes precedence over other.
func (s Source) Overrides(other Source) bool {
	return s.Precedence() > other.Precedence()
}

func (s Source) String() string {
	switch s {
	case SourceGlobal:
		return "global"
	case SourceRepositoryType:
		return "repository_type"
	case SourceTeam:
		return "team"
	case SourceTemplate:
		return "template"
	}
	return "unknown"
}
