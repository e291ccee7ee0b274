// Package github loads organization metadata from GitHub: level
// configurations from the organization's metadata repository, template
// configurations from the template repositories themselves.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/google/go-github/v69/github"
	"golang.org/x/oauth2"

	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
	"github.com/felixgeelhaar/repoforge/pkg/domain/settings"
	"github.com/felixgeelhaar/repoforge/pkg/storage"
)

const (
	// DefaultMetadataRepo is the repository holding an organization's
	// configuration hierarchy.
	DefaultMetadataRepo = "repo-metadata"
	// TemplateConfigPath is where a template repository carries its
	// configuration.
	TemplateConfigPath = ".repoforge/template.yaml"
	// TemplateTopic marks repositories that serve as templates.
	TemplateTopic = "repoforge-template"
)

var errNotFound = errors.New("not found")

// Provider implements config.Provider and templates.Repository against the
// GitHub API.
type Provider struct {
	client       *github.Client
	metadataRepo string
	strict       bool
	retryConfig  retry.Config
}

// Option configures a Provider.
type Option func(*Provider)

// WithMetadataRepo overrides the metadata repository name.
func WithMetadataRepo(name string) Option {
	return func(p *Provider) { p.metadataRepo = name }
}

// WithStrictParsing rejects legacy bare scalars in global defaults.
func WithStrictParsing() Option {
	return func(p *Provider) { p.strict = true }
}

// WithBaseURL points the client at a different API endpoint, for GitHub
// Enterprise installations and tests. The URL must end with a slash.
func WithBaseURL(rawURL string) Option {
	return func(p *Provider) {
		if parsed, err := url.Parse(rawURL); err == nil {
			p.client.BaseURL = parsed
		}
	}
}

// NewProvider returns a provider authenticated with the given token. An
// empty token falls back to unauthenticated requests.
func NewProvider(ctx context.Context, token string, opts ...Option) *Provider {
	var httpClient *http.Client
	if token != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, source)
	}
	p := &Provider{
		client:       github.NewClient(httpClient),
		metadataRepo: DefaultMetadataRepo,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  100 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// fetchResult carries one fetch outcome through the retryer. Absence is a
// successful outcome, so a 404 never consumes retry attempts.
type fetchResult struct {
	data     []byte
	notFound bool
}

// getFile fetches one file from a repository. Absence is reported as
// errNotFound without retrying; transient failures are retried up to the
// configured attempt budget.
func (p *Provider) getFile(ctx context.Context, org, repo, path string) ([]byte, error) {
	retryer := retry.New[fetchResult](p.retryConfig)
	result, err := retryer.Do(ctx, func(ctx context.Context) (fetchResult, error) {
		file, _, _, err := p.client.Repositories.GetContents(ctx, org, repo, path, nil)
		if err != nil {
			if isNotFound(err) {
				return fetchResult{notFound: true}, nil
			}
			return fetchResult{}, fmt.Errorf("fetching %s/%s/%s: %w", org, repo, path, err)
		}
		if file == nil {
			return fetchResult{}, fmt.Errorf("%s/%s/%s is a directory", org, repo, path)
		}
		content, err := file.GetContent()
		if err != nil {
			return fetchResult{}, fmt.Errorf("decoding %s/%s/%s: %w", org, repo, path, err)
		}
		return fetchResult{data: []byte(content)}, nil
	})
	if err != nil {
		return nil, err
	}
	if result.notFound {
		return nil, fmt.Errorf("%s/%s/%s: %w", org, repo, path, errNotFound)
	}
	return result.data, nil
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) &&
		ghErr.Response != nil &&
		ghErr.Response.StatusCode == http.StatusNotFound
}

// LoadGlobalDefaults loads global/defaults.yaml from the metadata repo.
func (p *Provider) LoadGlobalDefaults(ctx context.Context, org string) (*config.GlobalDefaults, error) {
	data, err := p.getFile(ctx, org, p.metadataRepo, "global/defaults.yaml")
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("organization %s: %w", org, config.ErrGlobalDefaultsMissing)
		}
		return nil, err
	}
	return storage.ParseGlobalDefaults(data, p.strict)
}

// LoadTeamConfig loads teams/<team>/config.yaml; absence returns (nil, nil).
func (p *Provider) LoadTeamConfig(ctx context.Context, org, team string) (*config.TeamConfig, error) {
	data, err := p.getFile(ctx, org, p.metadataRepo, fmt.Sprintf("teams/%s/config.yaml", team))
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return storage.ParseTeamConfig(data)
}

// LoadRepositoryTypeConfig loads types/<type>/config.yaml; absence returns
// (nil, nil).
func (p *Provider) LoadRepositoryTypeConfig(ctx context.Context, org, repositoryType string) (*config.RepositoryTypeConfig, error) {
	data, err := p.getFile(ctx, org, p.metadataRepo, fmt.Sprintf("types/%s/config.yaml", repositoryType))
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return storage.ParseRepositoryTypeConfig(data)
}

// LoadStandardLabels loads global/labels.yaml; a missing file is an empty
// baseline.
func (p *Provider) LoadStandardLabels(ctx context.Context, org string) (map[string]settings.Label, error) {
	data, err := p.getFile(ctx, org, p.metadataRepo, "global/labels.yaml")
	if err != nil {
		if errors.Is(err, errNotFound) {
			return map[string]settings.Label{}, nil
		}
		return nil, err
	}
	return storage.ParseStandardLabels(data)
}

// ListRepositoryTypes lists the types/ directory of the metadata repo.
func (p *Provider) ListRepositoryTypes(ctx context.Context, org string) ([]string, error) {
	return p.listDir(ctx, org, "types")
}

// ListTeams lists the teams/ directory of the metadata repo.
func (p *Provider) ListTeams(ctx context.Context, org string) ([]string, error) {
	return p.listDir(ctx, org, "teams")
}

func (p *Provider) listDir(ctx context.Context, org, dir string) ([]string, error) {
	_, entries, _, err := p.client.Repositories.GetContents(ctx, org, p.metadataRepo, dir, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.GetType() == "dir" {
			names = append(names, entry.GetName())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListTemplates finds the organization's template repositories by topic.
func (p *Provider) ListTemplates(ctx context.Context, org string) ([]string, error) {
	query := fmt.Sprintf("org:%s topic:%s", org, TemplateTopic)
	var names []string
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		result, resp, err := p.client.Search.Repositories(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("searching templates for %s: %w", org, err)
		}
		for _, repo := range result.Repositories {
			names = append(names, repo.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	sort.Strings(names)
	return names, nil
}

// LoadTemplateConfig loads the template configuration from the template
// repository itself.
func (p *Provider) LoadTemplateConfig(ctx context.Context, org, template string) (*config.TemplateConfig, error) {
	data, err := p.getFile(ctx, org, template, TemplateConfigPath)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("template %s/%s: %w", org, template, config.ErrTemplateNotFound)
		}
		return nil, err
	}
	return storage.ParseTemplateConfig(data)
}

// TemplateExists reports whether the template repository carries a
// configuration.
func (p *Provider) TemplateExists(ctx context.Context, org, template string) (bool, error) {
	_, err := p.getFile(ctx, org, template, TemplateConfigPath)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
