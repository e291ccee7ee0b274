package application

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
	"github.com/felixgeelhaar/repoforge/pkg/domain/merge"
	"github.com/felixgeelhaar/repoforge/pkg/domain/settings"
	"github.com/felixgeelhaar/repoforge/pkg/domain/validation"
	"github.com/felixgeelhaar/repoforge/pkg/templates"
)

type fakeProvider struct {
	global      *config.GlobalDefaults
	teams       map[string]*config.TeamConfig
	types       map[string]*config.RepositoryTypeConfig
	templates   map[string]*config.TemplateConfig
	labels      map[string]settings.Label
	templateErr error
}

func (f *fakeProvider) LoadGlobalDefaults(ctx context.Context, org string) (*config.GlobalDefaults, error) {
	if f.global == nil {
		return nil, config.ErrGlobalDefaultsMissing
	}
	return f.global, nil
}

func (f *fakeProvider) LoadTeamConfig(ctx context.Context, org, team string) (*config.TeamConfig, error) {
	return f.teams[team], nil
}

func (f *fakeProvider) LoadRepositoryTypeConfig(ctx context.Context, org, repositoryType string) (*config.RepositoryTypeConfig, error) {
	return f.types[repositoryType], nil
}

func (f *fakeProvider) LoadStandardLabels(ctx context.Context, org string) (map[string]settings.Label, error) {
	return f.labels, nil
}

func (f *fakeProvider) ListRepositoryTypes(ctx context.Context, org string) ([]string, error) {
	var names []string
	for name := range f.types {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeProvider) ListTeams(ctx context.Context, org string) ([]string, error) {
	var names []string
	for name := range f.teams {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeProvider) ListTemplates(ctx context.Context, org string) ([]string, error) {
	var names []string
	for name := range f.templates {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeProvider) LoadTemplateConfig(ctx context.Context, org, template string) (*config.TemplateConfig, error) {
	if f.templateErr != nil {
		return nil, f.templateErr
	}
	cfg, ok := f.templates[template]
	if !ok {
		return nil, config.ErrTemplateNotFound
	}
	return cfg, nil
}

func (f *fakeProvider) TemplateExists(ctx context.Context, org, template string) (bool, error) {
	_, ok := f.templates[template]
	return ok, nil
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		global: &config.GlobalDefaults{
			Repository: &settings.RepositorySettings{
				Wiki:               settings.Allowed(true),
				SecurityAdvisories: settings.Fixed(true),
			},
		},
		teams: map[string]*config.TeamConfig{
			"platform": {
				Repository: &settings.RepositorySettings{Wiki: settings.Allowed(false)},
			},
		},
		types: map[string]*config.RepositoryTypeConfig{
			"service": {
				Labels: []settings.Label{{Name: "service", Color: "0052cc"}},
			},
		},
		templates: map[string]*config.TemplateConfig{
			"go-service": {
				Template: config.TemplateMetadata{Name: "go-service"},
				Labels:   []settings.Label{{Name: "go", Color: "00add8"}},
			},
		},
		labels: map[string]settings.Label{
			"bug": {Name: "bug", Color: "d73a4a"},
		},
	}
}

func newService(provider *fakeProvider) *ResolutionService {
	return NewResolutionService(provider, templates.NewLoader(provider), validation.NewValidator(), nil)
}

func TestResolveFullHierarchy(t *testing.T) {
	service := newService(newFakeProvider())
	rc := config.NewContext("acme", "go-service").WithTeam("platform").WithRepositoryType("service")

	resolution, err := service.Resolve(context.Background(), rc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.ID == "" {
		t.Error("resolution needs an ID")
	}
	if !resolution.Validation.Valid() {
		t.Fatalf("expected valid result, got %v", resolution.Validation.Errors)
	}
	if resolution.Config.Repository.Wiki.Value {
		t.Error("team wiki override lost")
	}
	if src, _ := resolution.Config.Trace.Level("repository.wiki"); src != merge.SourceTeam {
		t.Errorf("expected team source, got %v", src)
	}
	// Labels from baseline, type, and template all present.
	for _, name := range []string{"bug", "service", "go"} {
		if _, ok := resolution.Config.Labels[name]; !ok {
			t.Errorf("label %q missing", name)
		}
	}
}

func TestResolveMissingOptionalLevels(t *testing.T) {
	service := newService(newFakeProvider())
	rc := config.NewContext("acme", "go-service").WithTeam("nonexistent").WithRepositoryType("nonexistent")

	resolution, err := service.Resolve(context.Background(), rc)
	if err != nil {
		t.Fatalf("missing optional levels must not fail: %v", err)
	}
	if !resolution.Config.Repository.Wiki.Value {
		t.Error("global value should survive when optional levels are absent")
	}
}

func TestResolveMissingGlobalDefaultsFails(t *testing.T) {
	provider := newFakeProvider()
	provider.global = nil
	service := newService(provider)

	_, err := service.Resolve(context.Background(), config.NewContext("acme", "go-service"))
	if !errors.Is(err, config.ErrGlobalDefaultsMissing) {
		t.Fatalf("expected ErrGlobalDefaultsMissing, got %v", err)
	}
}

func TestResolveMissingTemplateIsEmptyLevel(t *testing.T) {
	service := newService(newFakeProvider())
	resolution, err := service.Resolve(context.Background(), config.NewContext("acme", "does-not-exist"))
	if err != nil {
		t.Fatalf("missing template must resolve as an empty template level: %v", err)
	}
	if !resolution.Validation.Valid() {
		t.Errorf("expected valid result, got %v", resolution.Validation.Errors)
	}
	// Lower levels are untouched by the absent template.
	if !resolution.Config.Repository.Wiki.Value {
		t.Error("global value should survive without a template level")
	}
	if src, _ := resolution.Config.Trace.Level("repository.wiki"); src != merge.SourceGlobal {
		t.Errorf("expected global source, got %v", src)
	}
	if _, ok := resolution.Config.Labels["go"]; ok {
		t.Error("no template labels should appear")
	}
}

func TestResolveTemplateLoadFailurePropagates(t *testing.T) {
	provider := newFakeProvider()
	provider.templateErr = errors.New("transport down")
	service := newService(provider)
	if _, err := service.Resolve(context.Background(), config.NewContext("acme", "go-service")); err == nil {
		t.Fatal("non-absence template load failures must fail the resolution")
	}
}

func TestResolveWithoutTemplate(t *testing.T) {
	service := newService(newFakeProvider())
	resolution, err := service.Resolve(context.Background(), config.NewContext("acme", ""))
	if err != nil {
		t.Fatalf("resolve without template: %v", err)
	}
	if !resolution.Validation.Valid() {
		t.Errorf("expected valid result, got %v", resolution.Validation.Errors)
	}
}

func TestResolveOverrideViolationReported(t *testing.T) {
	provider := newFakeProvider()
	provider.teams["platform"].Repository.SecurityAdvisories = settings.Allowed(false)
	service := newService(provider)
	rc := config.NewContext("acme", "go-service").WithTeam("platform")

	resolution, err := service.Resolve(context.Background(), rc)
	if err != nil {
		t.Fatalf("override violations must not abort the resolution: %v", err)
	}
	issues := resolution.Validation.ErrorsOfKind(validation.KindOverrideNotAllowed)
	if len(issues) != 1 {
		t.Fatalf("expected 1 override issue, got %d", len(issues))
	}
	if issues[0].FieldPath != "repository.security_advisories" {
		t.Errorf("unexpected field path %q", issues[0].FieldPath)
	}
	// The merged result keeps the protecting value.
	if !resolution.Config.Repository.SecurityAdvisories.Value {
		t.Error("protecting value lost")
	}
}

func TestResolveFixedTemplateTypeConflict(t *testing.T) {
	provider := newFakeProvider()
	provider.templates["go-service"].RepositoryType = &config.RepositoryTypeSpec{
		Type:   "service",
		Policy: config.TypePolicyFixed,
	}
	service := newService(provider)
	rc := config.NewContext("acme", "go-service").WithRepositoryType("library")

	if _, err := service.Resolve(context.Background(), rc); err == nil {
		t.Fatal("fixed template type must reject a conflicting request")
	}
}

func TestResolvePreferableTemplateTypeFillsGap(t *testing.T) {
	provider := newFakeProvider()
	provider.templates["go-service"].RepositoryType = &config.RepositoryTypeSpec{Type: "service"}
	service := newService(provider)

	resolution, err := service.Resolve(context.Background(), config.NewContext("acme", "go-service"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// The service type config contributes its label.
	if _, ok := resolution.Config.Labels["service"]; !ok {
		t.Error("preferable binding should pull in the type configuration")
	}
}

func TestResolveUsesTemplateCache(t *testing.T) {
	provider := newFakeProvider()
	service := newService(provider)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := service.Resolve(ctx, config.NewContext("acme", "go-service")); err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}
	stats := service.CacheStats()
	if stats.TotalRequests != 3 || stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("unexpected cache stats: %+v", stats)
	}
}

func TestValidateOrganization(t *testing.T) {
	provider := newFakeProvider()
	provider.teams["platform"].Webhooks = []settings.Webhook{{URL: "https://ci.example.com/hook"}}
	service := NewValidationService(provider, templates.NewLoader(provider), validation.NewValidator(), nil)

	reports, err := service.ValidateOrganization(context.Background(), "acme")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	// global + 1 type + 1 team + 1 template
	if len(reports) != 4 {
		t.Fatalf("expected 4 reports, got %d", len(reports))
	}
	if reports[0].Level != "global" {
		t.Errorf("global must come first, got %s", reports[0].Level)
	}
	var teamReport *LevelReport
	for i := range reports {
		if reports[i].Level == "team" && reports[i].Name == "platform" {
			teamReport = &reports[i]
		}
	}
	if teamReport == nil {
		t.Fatal("team report missing")
	}
	if teamReport.Result.Valid() {
		t.Error("the event-less webhook should invalidate the team document")
	}
}
