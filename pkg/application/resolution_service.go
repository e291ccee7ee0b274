// Package application coordinates configuration resolution: loading the
// hierarchy levels, folding them, and validating the result.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
	"github.com/felixgeelhaar/repoforge/pkg/domain/merge"
	"github.com/felixgeelhaar/repoforge/pkg/domain/validation"
	"github.com/felixgeelhaar/repoforge/pkg/templates"
)

// Resolution is the outcome of one resolve request. Config is always
// populated; override violations and validation findings are reported in
// Validation rather than aborting the resolution.
type Resolution struct {
	ID         string
	Context    *config.Context
	Config     *merge.Merged
	Validation *validation.Result
}

// ResolutionService resolves merged configurations for provisioning
// requests.
type ResolutionService struct {
	provider  config.Provider
	templates *templates.Loader
	merger    *merge.Merger
	validator *validation.Validator
	logger    *slog.Logger
}

// NewResolutionService wires a resolution service. A nil logger falls back
// to slog.Default.
func NewResolutionService(provider config.Provider, loader *templates.Loader, validator *validation.Validator, logger *slog.Logger) *ResolutionService {
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = validation.NewValidator()
	}
	return &ResolutionService{
		provider:  provider,
		templates: loader,
		merger:    merge.NewMerger(),
		validator: validator,
		logger:    logger,
	}
}

// Resolve loads every applicable level for the request, folds them in
// precedence order, and validates the merged result. Missing team,
// repository type, and template configurations are skipped with a warning;
// only missing global defaults fail the resolution. Override violations
// surface as validation errors, not as a failed resolution.
func (s *ResolutionService) Resolve(ctx context.Context, rc *config.Context) (*Resolution, error) {
	resolutionID := uuid.NewString()
	s.logger.Debug("resolving configuration",
		"resolution_id", resolutionID,
		"org", rc.Organization,
		"template", rc.Template,
		"team", rc.Team,
		"repository_type", rc.RepositoryType)

	global, err := s.provider.LoadGlobalDefaults(ctx, rc.Organization)
	if err != nil {
		return nil, fmt.Errorf("loading global defaults: %w", err)
	}

	var templateCfg *config.TemplateConfig
	if rc.Template != "" {
		templateCfg, err = s.templates.Load(ctx, rc.Organization, rc.Template)
		if err != nil {
			if !errors.Is(err, config.ErrTemplateNotFound) {
				return nil, err
			}
			// A missing template is an empty level, like a missing team or
			// repository type.
			s.logger.Warn("template not found, resolving without a template level",
				"resolution_id", resolutionID,
				"org", rc.Organization,
				"template", rc.Template)
			templateCfg = nil
		}
	}

	repositoryType, err := s.effectiveRepositoryType(rc, templateCfg)
	if err != nil {
		return nil, err
	}

	var typeCfg *config.RepositoryTypeConfig
	if repositoryType != "" {
		typeCfg, err = s.provider.LoadRepositoryTypeConfig(ctx, rc.Organization, repositoryType)
		if err != nil {
			return nil, fmt.Errorf("loading repository type %q: %w", repositoryType, err)
		}
	}

	var teamCfg *config.TeamConfig
	if rc.Team != "" {
		teamCfg, err = s.provider.LoadTeamConfig(ctx, rc.Organization, rc.Team)
		if err != nil {
			return nil, fmt.Errorf("loading team %q: %w", rc.Team, err)
		}
	}

	merged, mergeErr := s.merger.Merge(global, typeCfg, teamCfg, templateCfg)
	if merged == nil {
		return nil, mergeErr
	}

	labels, err := s.provider.LoadStandardLabels(ctx, rc.Organization)
	if err != nil {
		return nil, fmt.Errorf("loading standard labels: %w", err)
	}
	merged.AddBaselineLabels(labels)

	result := s.validator.ValidateMerged(merged)
	if mergeErr != nil {
		var overrideErr *merge.OverrideError
		if !errors.As(mergeErr, &overrideErr) {
			return nil, mergeErr
		}
		for _, violation := range overrideErr.Violations {
			result.AddError(validation.Issue{
				Kind:       validation.KindOverrideNotAllowed,
				FieldPath:  violation.FieldPath,
				Message:    violation.String(),
				Suggestion: fmt.Sprintf("Remove the %s override or relax the %s policy", violation.AttemptedBy, violation.ProtectedBy),
			})
		}
	}

	for _, warning := range result.Warnings {
		s.logger.Warn("validation warning",
			"resolution_id", resolutionID,
			"field", warning.FieldPath,
			"message", warning.Message)
	}
	s.logger.Info("configuration resolved",
		"resolution_id", resolutionID,
		"org", rc.Organization,
		"template", rc.Template,
		"fields", merged.Trace.Count(),
		"errors", len(result.Errors),
		"warnings", len(result.Warnings))

	return &Resolution{
		ID:         resolutionID,
		Context:    rc,
		Config:     merged,
		Validation: result,
	}, nil
}

// effectiveRepositoryType applies a template's repository type binding. A
// fixed binding conflicts with a different requested type; a preferable
// binding only fills the gap when the request left the type unset.
func (s *ResolutionService) effectiveRepositoryType(rc *config.Context, templateCfg *config.TemplateConfig) (string, error) {
	if templateCfg == nil || templateCfg.RepositoryType == nil {
		return rc.RepositoryType, nil
	}
	binding := templateCfg.RepositoryType
	switch binding.EffectivePolicy() {
	case config.TypePolicyFixed:
		if rc.RepositoryType != "" && rc.RepositoryType != binding.Type {
			return "", fmt.Errorf("template %q requires repository type %q, request asked for %q",
				rc.Template, binding.Type, rc.RepositoryType)
		}
		return binding.Type, nil
	default:
		if rc.RepositoryType != "" {
			return rc.RepositoryType, nil
		}
		return binding.Type, nil
	}
}

// CacheStats exposes the template cache counters.
func (s *ResolutionService) CacheStats() templates.Stats {
	return s.templates.Stats()
}
