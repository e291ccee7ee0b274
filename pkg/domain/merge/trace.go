package merge

import "sort"

// SourceTrace records, per resolved field path, which hierarchy level
// supplied the surviving value. Collection entries use their domain key in
// the path (for example "labels.bug").
type SourceTrace struct {
	sources map[string]Source
}

// NewSourceTrace returns an empty trace.
func NewSourceTrace() *SourceTrace {
	return &SourceTrace{sources: make(map[string]Source)}
}

// Record notes that path is currently supplied by source, replacing any
// earlier entry for the path.
func (t *SourceTrace) Record(path string, source Source) {
	if t.sources == nil {
		t.sources = make(map[string]Source)
	}
	t.sources[path] = source
}

// Level returns the recorded source for a path.
func (t *SourceTrace) Level(path string) (Source, bool) {
	s, ok := t.sources[path]
	return s, ok
}

// Merge folds other into t. When both traces know a path, the
// higher-precedence source wins, which makes the operation associative and
// commutative in outcome.
func (t *SourceTrace) Merge(other *SourceTrace) {
	if other == nil {
		return
	}
	for path, src := range other.sources {
		if existing, ok := t.sources[path]; !ok || src.Overrides(existing) {
			t.Record(path, src)
		}
	}
}

// Count returns the number of traced paths.
func (t *SourceTrace) Count() int {
	return len(t.sources)
}

// IsEmpty reports whether nothing has been traced.
func (t *SourceTrace) IsEmpty() bool {
	return len(t.sources) == 0
}

// Paths returns every traced path in sorted order.
func (t *SourceTrace) Paths() []string {
	paths := make([]string, 0, len(t.sources))
	for p := range t.sources {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Summary returns how many fields each level contributed.
func (t *SourceTrace) Summary() map[Source]int {
	summary := make(map[Source]int)
	for _, src := range t.sources {
		summary[src]++
	}
	return summary
}
