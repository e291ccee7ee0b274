package merge

import "testing"

func TestSourcePrecedence(t *testing.T) {
	order := []Source{SourceGlobal, SourceRepositoryType, SourceTeam, SourceTemplate}
	for i := 1; i < len(order); i++ {
		if !order[i].Overrides(order[i-1]) {
			t.Errorf("%s should override %s", order[i], order[i-1])
		}
		if order[i-1].Overrides(order[i]) {
			t.Errorf("%s should not override %s", order[i-1], order[i])
		}
	}
	if SourceTeam.Overrides(SourceTeam) {
		t.Error("a level does not override itself")
	}
	if SourceGlobal.Precedence() != 1 || SourceTemplate.Precedence() != 4 {
		t.Error("precedence ranks changed")
	}
}

func TestTraceRecordAndLevel(t *testing.T) {
	trace := NewSourceTrace()
	if !trace.IsEmpty() {
		t.Error("new trace should be empty")
	}
	trace.Record("repository.wiki", SourceGlobal)
	trace.Record("repository.wiki", SourceTeam)
	src, ok := trace.Level("repository.wiki")
	if !ok || src != SourceTeam {
		t.Errorf("expected team, got %v (ok=%v)", src, ok)
	}
	if _, ok := trace.Level("repository.issues"); ok {
		t.Error("untracked path must report absent")
	}
	if trace.Count() != 1 {
		t.Errorf("expected 1 path, got %d", trace.Count())
	}
}

func TestTraceMergeHigherPrecedenceWins(t *testing.T) {
	a := NewSourceTrace()
	a.Record("repository.wiki", SourceTeam)
	a.Record("repository.issues", SourceGlobal)

	b := NewSourceTrace()
	b.Record("repository.wiki", SourceGlobal)
	b.Record("labels.bug", SourceTemplate)

	a.Merge(b)
	if src, _ := a.Level("repository.wiki"); src != SourceTeam {
		t.Errorf("lower precedence must not replace higher, got %v", src)
	}
	if src, _ := a.Level("labels.bug"); src != SourceTemplate {
		t.Errorf("new path must be adopted, got %v", src)
	}
	if a.Count() != 3 {
		t.Errorf("expected 3 paths, got %d", a.Count())
	}
}

func TestTraceMergeCommutative(t *testing.T) {
	build := func() (*SourceTrace, *SourceTrace) {
		a := NewSourceTrace()
		a.Record("x", SourceGlobal)
		a.Record("y", SourceTemplate)
		b := NewSourceTrace()
		b.Record("x", SourceTeam)
		b.Record("z", SourceRepositoryType)
		return a, b
	}

	ab, other := build()
	ab.Merge(other)

	second, ba := build()
	ba.Merge(second)

	for _, path := range []string{"x", "y", "z"} {
		left, _ := ab.Level(path)
		right, _ := ba.Level(path)
		if left != right {
			t.Errorf("merge order changed outcome for %s: %v vs %v", path, left, right)
		}
	}
}

func TestTraceSummary(t *testing.T) {
	trace := NewSourceTrace()
	trace.Record("a", SourceGlobal)
	trace.Record("b", SourceGlobal)
	trace.Record("c", SourceTeam)
	summary := trace.Summary()
	if summary[SourceGlobal] != 2 || summary[SourceTeam] != 1 {
		t.Errorf("unexpected summary: %v", summary)
	}
}
