package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
	"github.com/felixgeelhaar/repoforge/pkg/domain/validation"
	"github.com/felixgeelhaar/repoforge/pkg/templates"
)

// LevelReport is the validation outcome for one configuration document.
type LevelReport struct {
	Level  string
	Name   string
	Result *validation.Result
}

// ValidationService validates every configuration document of an
// organization before any merge, for early feedback on the metadata
// repository itself.
type ValidationService struct {
	provider  config.Provider
	templates *templates.Loader
	validator *validation.Validator
	logger    *slog.Logger
}

// NewValidationService wires a validation service. A nil logger falls back
// to slog.Default.
func NewValidationService(provider config.Provider, loader *templates.Loader, validator *validation.Validator, logger *slog.Logger) *ValidationService {
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = validation.NewValidator()
	}
	return &ValidationService{
		provider:  provider,
		templates: loader,
		validator: validator,
		logger:    logger,
	}
}

// ValidateOrganization checks the global defaults plus every repository
// type, team, and template document. Reports come back ordered: global
// first, then types, teams, and templates alphabetically.
func (s *ValidationService) ValidateOrganization(ctx context.Context, org string) ([]LevelReport, error) {
	var reports []LevelReport

	global, err := s.provider.LoadGlobalDefaults(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("loading global defaults: %w", err)
	}
	reports = append(reports, LevelReport{
		Level:  "global",
		Name:   "defaults",
		Result: s.validator.ValidateGlobalDefaults(global),
	})

	types, err := s.provider.ListRepositoryTypes(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("listing repository types: %w", err)
	}
	sort.Strings(types)
	for _, name := range types {
		cfg, err := s.provider.LoadRepositoryTypeConfig(ctx, org, name)
		if err != nil {
			return nil, fmt.Errorf("loading repository type %q: %w", name, err)
		}
		if cfg == nil {
			continue
		}
		reports = append(reports, LevelReport{
			Level:  "repository_type",
			Name:   name,
			Result: s.validator.ValidateRepositoryTypeConfig(cfg),
		})
	}

	teams, err := s.provider.ListTeams(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	sort.Strings(teams)
	for _, name := range teams {
		cfg, err := s.provider.LoadTeamConfig(ctx, org, name)
		if err != nil {
			return nil, fmt.Errorf("loading team %q: %w", name, err)
		}
		if cfg == nil {
			continue
		}
		reports = append(reports, LevelReport{
			Level:  "team",
			Name:   name,
			Result: s.validator.ValidateTeamConfig(cfg),
		})
	}

	templateNames, err := s.provider.ListTemplates(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	sort.Strings(templateNames)
	for _, name := range templateNames {
		cfg, err := s.templates.Load(ctx, org, name)
		if err != nil {
			return nil, err
		}
		reports = append(reports, LevelReport{
			Level:  "template",
			Name:   name,
			Result: s.validator.ValidateTemplateConfig(cfg),
		})
	}

	invalid := 0
	for _, report := range reports {
		if !report.Result.Valid() {
			invalid++
		}
	}
	s.logger.Info("organization validated",
		"org", org,
		"documents", len(reports),
		"invalid", invalid)
	return reports, nil
}
