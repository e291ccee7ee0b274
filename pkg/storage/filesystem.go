// Package storage reads organization metadata from a local directory tree,
// mirroring the layout of a metadata repository checkout:
//
//	<root>/<org>/global/defaults.yaml
//	<root>/<org>/global/labels.yaml
//	<root>/<org>/teams/<team>/config.yaml
//	<root>/<org>/types/<type>/config.yaml
//	<root>/<org>/templates/<template>/template.yaml
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
	"github.com/felixgeelhaar/repoforge/pkg/domain/settings"
)

const (
	GlobalDir    = "global"
	DefaultsFile = "defaults.yaml"
	LabelsFile   = "labels.yaml"
	TeamsDir     = "teams"
	TypesDir     = "types"
	TemplatesDir = "templates"
	ConfigFile   = "config.yaml"
	TemplateFile = "template.yaml"
)

// FilesystemProvider implements config.Provider and templates.Repository
// over a metadata directory.
type FilesystemProvider struct {
	root        string
	strict      bool
	retryConfig retry.Config
}

// NewFilesystemProvider returns a provider rooted at the given directory.
// In strict mode, legacy bare scalars in global defaults are rejected.
func NewFilesystemProvider(root string, strict bool) *FilesystemProvider {
	return &FilesystemProvider{
		root:   root,
		strict: strict,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the metadata root directory.
func (p *FilesystemProvider) Root() string {
	return p.root
}

// resolvePath joins path segments under the org directory, rejecting
// segments that would escape it.
func (p *FilesystemProvider) resolvePath(org string, segments ...string) (string, error) {
	if org == "" {
		return "", fmt.Errorf("organization cannot be empty")
	}
	for _, seg := range append([]string{org}, segments...) {
		if seg == "" || seg == ".." || strings.ContainsAny(seg, `/\`) {
			return "", fmt.Errorf("invalid path segment: %q", seg)
		}
	}
	baseDir := filepath.Join(p.root, org)
	fullPath := filepath.Clean(filepath.Join(append([]string{baseDir}, segments...)...))
	if !strings.HasPrefix(fullPath, baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file path: %s", filepath.Join(segments...))
	}
	return fullPath, nil
}

// readFile reads a metadata file with retries. Absence is reported as
// os.ErrNotExist without retrying.
func (p *FilesystemProvider) readFile(ctx context.Context, path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	retryer := retry.New[[]byte](p.retryConfig)
	return retryer.Do(ctx, func(ctx context.Context) ([]byte, error) {
		// #nosec G304 -- path is resolved and validated via resolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, nil
	})
}

// LoadGlobalDefaults loads the mandatory organization baseline.
func (p *FilesystemProvider) LoadGlobalDefaults(ctx context.Context, org string) (*config.GlobalDefaults, error) {
	path, err := p.resolvePath(org, GlobalDir, DefaultsFile)
	if err != nil {
		return nil, err
	}
	data, err := p.readFile(ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("organization %s: %w", org, config.ErrGlobalDefaultsMissing)
		}
		return nil, err
	}
	return ParseGlobalDefaults(data, p.strict)
}

// LoadTeamConfig loads a team configuration; absence returns (nil, nil).
func (p *FilesystemProvider) LoadTeamConfig(ctx context.Context, org, team string) (*config.TeamConfig, error) {
	path, err := p.resolvePath(org, TeamsDir, team, ConfigFile)
	if err != nil {
		return nil, err
	}
	data, err := p.readFile(ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return ParseTeamConfig(data)
}

// LoadRepositoryTypeConfig loads a repository type configuration; absence
// returns (nil, nil).
func (p *FilesystemProvider) LoadRepositoryTypeConfig(ctx context.Context, org, repositoryType string) (*config.RepositoryTypeConfig, error) {
	path, err := p.resolvePath(org, TypesDir, repositoryType, ConfigFile)
	if err != nil {
		return nil, err
	}
	data, err := p.readFile(ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return ParseRepositoryTypeConfig(data)
}

// LoadStandardLabels loads the organization baseline labels. A missing
// labels file is an empty baseline, not an error.
func (p *FilesystemProvider) LoadStandardLabels(ctx context.Context, org string) (map[string]settings.Label, error) {
	path, err := p.resolvePath(org, GlobalDir, LabelsFile)
	if err != nil {
		return nil, err
	}
	data, err := p.readFile(ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]settings.Label{}, nil
		}
		return nil, err
	}
	return ParseStandardLabels(data)
}

// ListRepositoryTypes lists the repository types with a configuration.
func (p *FilesystemProvider) ListRepositoryTypes(ctx context.Context, org string) ([]string, error) {
	return p.listSubdirs(org, TypesDir)
}

// ListTemplates lists the templates with a configuration.
func (p *FilesystemProvider) ListTemplates(ctx context.Context, org string) ([]string, error) {
	return p.listSubdirs(org, TemplatesDir)
}

// ListTeams lists the teams with a configuration.
func (p *FilesystemProvider) ListTeams(ctx context.Context, org string) ([]string, error) {
	return p.listSubdirs(org, TeamsDir)
}

func (p *FilesystemProvider) listSubdirs(org, dir string) ([]string, error) {
	path, err := p.resolvePath(org, dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// LoadTemplateConfig loads one template configuration. A resolution names
// its template explicitly, so absence is an error wrapping
// config.ErrTemplateNotFound rather than a tolerated gap.
func (p *FilesystemProvider) LoadTemplateConfig(ctx context.Context, org, template string) (*config.TemplateConfig, error) {
	path, err := p.resolvePath(org, TemplatesDir, template, TemplateFile)
	if err != nil {
		return nil, err
	}
	data, err := p.readFile(ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("template %s/%s: %w", org, template, config.ErrTemplateNotFound)
		}
		return nil, err
	}
	return ParseTemplateConfig(data)
}

// TemplateExists reports whether a template configuration is present.
func (p *FilesystemProvider) TemplateExists(ctx context.Context, org, template string) (bool, error) {
	path, err := p.resolvePath(org, TemplatesDir, template, TemplateFile)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
