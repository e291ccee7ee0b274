package merge

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
	"github.com/felixgeelhaar/repoforge/pkg/domain/settings"
)

func baseGlobal() *config.GlobalDefaults {
	return &config.GlobalDefaults{
		Repository: &settings.RepositorySettings{
			Wiki:               settings.Allowed(true),
			Issues:             settings.Allowed(true),
			SecurityAdvisories: settings.Fixed(true),
		},
		PullRequests: &settings.PullRequestSettings{
			RequiredApprovingReviewCount: settings.Allowed(1),
		},
	}
}

func TestMergeRequiresGlobalDefaults(t *testing.T) {
	m := NewMerger()
	if _, err := m.Merge(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error without global defaults")
	}
}

func TestMergeGlobalOnly(t *testing.T) {
	m := NewMerger()
	merged, err := m.Merge(baseGlobal(), nil, nil, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged.Repository.Wiki == nil || !merged.Repository.Wiki.Value {
		t.Error("global wiki setting lost")
	}
	if src, _ := merged.Trace.Level("repository.wiki"); src != SourceGlobal {
		t.Errorf("expected global source, got %v", src)
	}
}

func TestMergeTeamOverridesAllowedValue(t *testing.T) {
	team := &config.TeamConfig{
		Repository: &settings.RepositorySettings{Wiki: settings.Allowed(false)},
	}
	merged, err := NewMerger().Merge(baseGlobal(), nil, team, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged.Repository.Wiki.Value {
		t.Error("team override should win for an overridable field")
	}
	if src, _ := merged.Trace.Level("repository.wiki"); src != SourceTeam {
		t.Errorf("trace should move to team, got %v", src)
	}
	// Untouched fields keep their global source.
	if src, _ := merged.Trace.Level("repository.issues"); src != SourceGlobal {
		t.Errorf("untouched field should stay global, got %v", src)
	}
}

func TestMergeFixedValueBlocksOverride(t *testing.T) {
	team := &config.TeamConfig{
		Repository: &settings.RepositorySettings{SecurityAdvisories: settings.Allowed(false)},
	}
	merged, err := NewMerger().Merge(baseGlobal(), nil, team, nil)
	if err == nil {
		t.Fatal("expected override error")
	}
	var overrideErr *OverrideError
	if !errors.As(err, &overrideErr) {
		t.Fatalf("expected *OverrideError, got %T", err)
	}
	if len(overrideErr.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(overrideErr.Violations))
	}
	v := overrideErr.Violations[0]
	if v.FieldPath != "repository.security_advisories" {
		t.Errorf("unexpected field path %q", v.FieldPath)
	}
	if v.ProtectedBy != SourceGlobal || v.AttemptedBy != SourceTeam {
		t.Errorf("unexpected levels: protected by %v, attempted by %v", v.ProtectedBy, v.AttemptedBy)
	}
	// The protecting value survives in the result.
	if merged == nil || !merged.Repository.SecurityAdvisories.Value {
		t.Error("merged result must retain the protecting value")
	}
	if src, _ := merged.Trace.Level("repository.security_advisories"); src != SourceGlobal {
		t.Errorf("trace must keep the protecting level, got %v", src)
	}
}

func TestMergeSameValueOverFixedIsNoViolation(t *testing.T) {
	team := &config.TeamConfig{
		Repository: &settings.RepositorySettings{SecurityAdvisories: settings.Allowed(true)},
	}
	merged, err := NewMerger().Merge(baseGlobal(), nil, team, nil)
	if err != nil {
		t.Fatalf("re-asserting the fixed value must succeed: %v", err)
	}
	if merged.Repository.SecurityAdvisories.CanOverride() {
		t.Error("re-assertion must not lift the fixed policy")
	}
}

func TestMergeAccumulatesAllViolations(t *testing.T) {
	global := &config.GlobalDefaults{
		Repository: &settings.RepositorySettings{
			Wiki:   settings.Fixed(true),
			Issues: settings.Fixed(true),
		},
	}
	team := &config.TeamConfig{
		Repository: &settings.RepositorySettings{
			Wiki:   settings.Allowed(false),
			Issues: settings.Allowed(false),
		},
	}
	template := &config.TemplateConfig{
		Repository: &settings.RepositorySettings{Wiki: settings.Allowed(false)},
	}
	_, err := NewMerger().Merge(global, nil, team, template)
	var overrideErr *OverrideError
	if !errors.As(err, &overrideErr) {
		t.Fatalf("expected *OverrideError, got %v", err)
	}
	if len(overrideErr.Violations) != 3 {
		t.Errorf("expected all 3 violations collected, got %d", len(overrideErr.Violations))
	}
}

func TestMergeTemplateHighestPrecedence(t *testing.T) {
	repoType := &config.RepositoryTypeConfig{
		Repository: &settings.RepositorySettings{Wiki: settings.Allowed(false)},
	}
	team := &config.TeamConfig{
		Repository: &settings.RepositorySettings{Wiki: settings.Allowed(true)},
	}
	template := &config.TemplateConfig{
		Repository: &settings.RepositorySettings{Wiki: settings.Allowed(false)},
	}
	merged, err := NewMerger().Merge(baseGlobal(), repoType, team, template)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged.Repository.Wiki.Value {
		t.Error("template value should win")
	}
	if src, _ := merged.Trace.Level("repository.wiki"); src != SourceTemplate {
		t.Errorf("expected template source, got %v", src)
	}
}

func TestMergeAbsentFieldIsNoOp(t *testing.T) {
	// A team section that exists but sets nothing must not disturb lower
	// levels or the trace.
	team := &config.TeamConfig{Repository: &settings.RepositorySettings{}}
	merged, err := NewMerger().Merge(baseGlobal(), nil, team, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if src, _ := merged.Trace.Level("repository.wiki"); src != SourceGlobal {
		t.Errorf("absent field must not move the trace, got %v", src)
	}
}

func TestMergeMissingMiddleLevelsEqualEmptyLevels(t *testing.T) {
	global := baseGlobal()
	withNil, err := NewMerger().Merge(global, nil, nil, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	withEmpty, err := NewMerger().Merge(global, &config.RepositoryTypeConfig{}, &config.TeamConfig{}, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if withNil.Trace.Count() != withEmpty.Trace.Count() {
		t.Errorf("nil and empty middle levels diverged: %d vs %d",
			withNil.Trace.Count(), withEmpty.Trace.Count())
	}
	if withNil.Repository.Wiki.Value != withEmpty.Repository.Wiki.Value {
		t.Error("nil and empty middle levels produced different values")
	}
}

func TestMergeIsDeterministic(t *testing.T) {
	team := &config.TeamConfig{
		Repository: &settings.RepositorySettings{Wiki: settings.Allowed(false)},
		Webhooks:   []settings.Webhook{{URL: "https://ci.example.com/hook", Events: []string{"push"}}},
	}
	first, err := NewMerger().Merge(baseGlobal(), nil, team, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	second, err := NewMerger().Merge(baseGlobal(), nil, team, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if first.Repository.Wiki.Value != second.Repository.Wiki.Value ||
		first.Trace.Count() != second.Trace.Count() ||
		len(first.Webhooks) != len(second.Webhooks) {
		t.Error("identical inputs produced different results")
	}
}

func TestMergeLabelsDedupByName(t *testing.T) {
	repoType := &config.RepositoryTypeConfig{
		Labels: []settings.Label{{Name: "bug", Color: "ff0000"}},
	}
	template := &config.TemplateConfig{
		Labels: []settings.Label{
			{Name: "bug", Color: "00ff00"},
			{Name: "enhancement", Color: "0000ff"},
		},
	}
	merged, err := NewMerger().Merge(baseGlobal(), repoType, nil, template)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(merged.Labels))
	}
	if merged.Labels["bug"].Color != "00ff00" {
		t.Errorf("higher level color should win, got %q", merged.Labels["bug"].Color)
	}
	if src, _ := merged.Trace.Level("labels.bug"); src != SourceTemplate {
		t.Errorf("trace for the shared label should be template, got %v", src)
	}
	if src, _ := merged.Trace.Level("labels.enhancement"); src != SourceTemplate {
		t.Errorf("trace for the new label should be template, got %v", src)
	}
}

func TestMergeWebhooksDedupByURL(t *testing.T) {
	global := baseGlobal()
	global.Webhooks = []settings.Webhook{
		{URL: "https://ci.example.com/hook", Events: []string{"push"}},
	}
	team := &config.TeamConfig{
		Webhooks: []settings.Webhook{
			{URL: "https://ci.example.com/hook", Events: []string{"push", "pull_request"}},
			{URL: "https://deploy.example.com/hook", Events: []string{"release"}},
		},
	}
	merged, err := NewMerger().Merge(global, nil, team, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged.Webhooks) != 2 {
		t.Fatalf("expected 2 webhooks, got %d", len(merged.Webhooks))
	}
	for _, hook := range merged.Webhooks {
		if hook.URL == "https://ci.example.com/hook" && len(hook.Events) != 2 {
			t.Errorf("team webhook should replace global entry in place")
		}
	}
}

func TestMergeAppsAndEnvironmentsAdditive(t *testing.T) {
	global := baseGlobal()
	global.GitHubApps = []settings.GitHubApp{{AppID: 100, Permissions: map[string]string{"contents": "read"}}}
	global.Environments = []settings.Environment{{Name: "production"}}
	team := &config.TeamConfig{
		GitHubApps:   []settings.GitHubApp{{AppID: 200, Permissions: map[string]string{"issues": "write"}}},
		Environments: []settings.Environment{{Name: "staging"}},
	}
	merged, err := NewMerger().Merge(global, nil, team, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged.GitHubApps) != 2 {
		t.Errorf("expected both apps, got %d", len(merged.GitHubApps))
	}
	if len(merged.Environments) != 2 {
		t.Errorf("expected both environments, got %d", len(merged.Environments))
	}
}

func TestMergeNotificationsDedupByURL(t *testing.T) {
	team := &config.TeamConfig{
		Notifications: &settings.NotificationsConfig{
			OutboundWebhooks: []settings.NotificationEndpoint{
				{URL: "https://hooks.example.com/a", Secret: "s", Events: []string{"*"}},
			},
		},
	}
	template := &config.TemplateConfig{
		Notifications: &settings.NotificationsConfig{
			OutboundWebhooks: []settings.NotificationEndpoint{
				{URL: "https://hooks.example.com/a", Secret: "s2", Events: []string{"repository.created"}},
			},
		},
	}
	merged, err := NewMerger().Merge(baseGlobal(), nil, team, template)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged.Notifications.OutboundWebhooks) != 1 {
		t.Fatalf("expected dedup by URL, got %d endpoints", len(merged.Notifications.OutboundWebhooks))
	}
	if merged.Notifications.OutboundWebhooks[0].Secret != "s2" {
		t.Error("template endpoint should replace the team entry")
	}
}

func TestMergeTemplateVisibility(t *testing.T) {
	visibility := settings.VisibilityPrivate
	template := &config.TemplateConfig{DefaultVisibility: &visibility}
	merged, err := NewMerger().Merge(baseGlobal(), nil, nil, template)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged.Visibility == nil || *merged.Visibility != settings.VisibilityPrivate {
		t.Error("template default visibility lost")
	}
	if src, _ := merged.Trace.Level("default_visibility"); src != SourceTemplate {
		t.Errorf("expected template source, got %v", src)
	}
}

func TestAddBaselineLabelsOnlyFillsGaps(t *testing.T) {
	template := &config.TemplateConfig{
		Labels: []settings.Label{{Name: "bug", Color: "00ff00"}},
	}
	merged, err := NewMerger().Merge(baseGlobal(), nil, nil, template)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	merged.AddBaselineLabels(map[string]settings.Label{
		"bug":      {Name: "bug", Color: "ff0000"},
		"question": {Name: "question", Color: "cccccc"},
	})
	if merged.Labels["bug"].Color != "00ff00" {
		t.Error("baseline labels must not replace explicit ones")
	}
	if _, ok := merged.Labels["question"]; !ok {
		t.Error("baseline label missing")
	}
	if src, _ := merged.Trace.Level("labels.question"); src != SourceGlobal {
		t.Errorf("baseline label should trace to global, got %v", src)
	}
}
