// Package config defines the per-level configuration documents of the
// resolution hierarchy and the provider interface that loads them from an
// organization's metadata repository.
package config

import (
	"github.com/felixgeelhaar/repoforge/pkg/domain/settings"
)

// GlobalDefaults is the organization baseline. It is the only mandatory
// level; every resolution starts from it.
type GlobalDefaults struct {
	Repository       *settings.RepositorySettings       `yaml:"repository,omitempty"`
	PullRequests     *settings.PullRequestSettings      `yaml:"pull_requests,omitempty"`
	BranchProtection *settings.BranchProtectionSettings `yaml:"branch_protection,omitempty"`
	Actions          *settings.ActionSettings           `yaml:"actions,omitempty"`
	Push             *settings.PushSettings             `yaml:"push,omitempty"`
	Webhooks         []settings.Webhook                 `yaml:"webhooks,omitempty"`
	CustomProperties []settings.CustomProperty          `yaml:"custom_properties,omitempty"`
	Environments     []settings.Environment             `yaml:"environments,omitempty"`
	GitHubApps       []settings.GitHubApp               `yaml:"github_apps,omitempty"`
	Rulesets         []settings.Ruleset                 `yaml:"rulesets,omitempty"`
	Visibility       *settings.VisibilityPolicy         `yaml:"repository_visibility,omitempty"`
}

// RepositoryTypeConfig customizes defaults for one category of repository
// (library, service, documentation, ...).
type RepositoryTypeConfig struct {
	Repository       *settings.RepositorySettings       `yaml:"repository,omitempty"`
	PullRequests     *settings.PullRequestSettings      `yaml:"pull_requests,omitempty"`
	BranchProtection *settings.BranchProtectionSettings `yaml:"branch_protection,omitempty"`
	Labels           []settings.Label                   `yaml:"labels,omitempty"`
	Webhooks         []settings.Webhook                 `yaml:"webhooks,omitempty"`
	CustomProperties []settings.CustomProperty          `yaml:"custom_properties,omitempty"`
	Environments     []settings.Environment             `yaml:"environments,omitempty"`
	GitHubApps       []settings.GitHubApp               `yaml:"github_apps,omitempty"`
	Rulesets         []settings.Ruleset                 `yaml:"rulesets,omitempty"`
	Notifications    *settings.NotificationsConfig      `yaml:"notifications,omitempty"`
}

// TeamConfig customizes defaults for one owning team.
type TeamConfig struct {
	Repository       *settings.RepositorySettings       `yaml:"repository,omitempty"`
	PullRequests     *settings.PullRequestSettings      `yaml:"pull_requests,omitempty"`
	BranchProtection *settings.BranchProtectionSettings `yaml:"branch_protection,omitempty"`
	Actions          *settings.ActionSettings           `yaml:"actions,omitempty"`
	Push             *settings.PushSettings             `yaml:"push,omitempty"`
	Webhooks         []settings.Webhook                 `yaml:"webhooks,omitempty"`
	CustomProperties []settings.CustomProperty          `yaml:"custom_properties,omitempty"`
	Environments     []settings.Environment             `yaml:"environments,omitempty"`
	GitHubApps       []settings.GitHubApp               `yaml:"github_apps,omitempty"`
	Rulesets         []settings.Ruleset                 `yaml:"rulesets,omitempty"`
	Notifications    *settings.NotificationsConfig      `yaml:"notifications,omitempty"`
}

// TemplateConfig is the highest-precedence level, carried by the template
// repository a new repository is provisioned from.
type TemplateConfig struct {
	Template          TemplateMetadata                   `yaml:"template"`
	RepositoryType    *RepositoryTypeSpec                `yaml:"repository_type,omitempty"`
	Variables         map[string]TemplateVariable        `yaml:"variables,omitempty"`
	Repository        *settings.RepositorySettings       `yaml:"repository,omitempty"`
	PullRequests      *settings.PullRequestSettings      `yaml:"pull_requests,omitempty"`
	BranchProtection  *settings.BranchProtectionSettings `yaml:"branch_protection,omitempty"`
	Labels            []settings.Label                   `yaml:"labels,omitempty"`
	Webhooks          []settings.Webhook                 `yaml:"webhooks,omitempty"`
	Environments      []settings.Environment             `yaml:"environments,omitempty"`
	GitHubApps        []settings.GitHubApp               `yaml:"github_apps,omitempty"`
	Rulesets          []settings.Ruleset                 `yaml:"rulesets,omitempty"`
	DefaultVisibility *settings.Visibility               `yaml:"default_visibility,omitempty"`
	Notifications     *settings.NotificationsConfig      `yaml:"notifications,omitempty"`
}

// TemplateMetadata describes a template for discovery and display.
type TemplateMetadata struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Author      string   `yaml:"author"`
	Tags        []string `yaml:"tags,omitempty"`
}

// RepositoryTypePolicy states how strongly a template binds its type.
type RepositoryTypePolicy string

const (
	// TypePolicyFixed rejects a conflicting repository type at resolve time.
	TypePolicyFixed RepositoryTypePolicy = "fixed"
	// TypePolicyPreferable fills the type only when the caller left it unset.
	TypePolicyPreferable RepositoryTypePolicy = "preferable"
)

// RepositoryTypeSpec binds a template to a repository type.
type RepositoryTypeSpec struct {
	Type   string               `yaml:"type"`
	Policy RepositoryTypePolicy `yaml:"policy,omitempty"` // defaults to preferable
}

// EffectivePolicy returns the policy with the default applied.
func (s *RepositoryTypeSpec) EffectivePolicy() RepositoryTypePolicy {
	if s.Policy == "" {
		return TypePolicyPreferable
	}
	return s.Policy
}

// TemplateVariable declares a substitution variable a template consumes,
// with its validation constraints.
type TemplateVariable struct {
	Description string   `yaml:"description,omitempty"`
	Example     string   `yaml:"example,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
	Pattern     string   `yaml:"pattern,omitempty"`
	MinLength   *int     `yaml:"min_length,omitempty"`
	MaxLength   *int     `yaml:"max_length,omitempty"`
	Options     []string `yaml:"options,omitempty"`
	Default     string   `yaml:"default,omitempty"`
}
