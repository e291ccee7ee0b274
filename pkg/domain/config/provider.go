package config

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/repoforge/pkg/domain/settings"
)

// ErrGlobalDefaultsMissing reports that the organization has no global
// defaults document. Unlike the optional levels, this is never tolerated.
var ErrGlobalDefaultsMissing = errors.New("global defaults not found")

// ErrTemplateNotFound reports that a named template does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// Provider loads level configurations from an organization's metadata
// repository. Absence of a team or repository type configuration is not an
// error: those loads return (nil, nil). A missing global defaults document
// is always an error wrapping ErrGlobalDefaultsMissing.
type Provider interface {
	LoadGlobalDefaults(ctx context.Context, org string) (*GlobalDefaults, error)
	LoadTeamConfig(ctx context.Context, org, team string) (*TeamConfig, error)
	LoadRepositoryTypeConfig(ctx context.Context, org, repositoryType string) (*RepositoryTypeConfig, error)
	LoadStandardLabels(ctx context.Context, org string) (map[string]settings.Label, error)
	ListRepositoryTypes(ctx context.Context, org string) ([]string, error)
	ListTeams(ctx context.Context, org string) ([]string, error)
	ListTemplates(ctx context.Context, org string) ([]string, error)
}
