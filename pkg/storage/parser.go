package storage

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
	"github.com/felixgeelhaar/repoforge/pkg/domain/settings"
	"gopkg.in/yaml.v3"
)

// ParseGlobalDefaults decodes a global defaults document. In strict mode,
// scalar settings must use the structured {value, override_allowed} form;
// the legacy bare form is rejected with the offending field paths.
func ParseGlobalDefaults(data []byte, strict bool) (*config.GlobalDefaults, error) {
	var defaults config.GlobalDefaults
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return nil, fmt.Errorf("failed to parse global defaults: %w", err)
	}
	if strict {
		if legacy := legacyPaths(&defaults); len(legacy) > 0 {
			return nil, fmt.Errorf("global defaults use the legacy bare form for: %s",
				strings.Join(legacy, ", "))
		}
	}
	return &defaults, nil
}

// ParseTeamConfig decodes a team document. Bare scalars are accepted and
// wrap with override_allowed=true.
func ParseTeamConfig(data []byte) (*config.TeamConfig, error) {
	var cfg config.TeamConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse team config: %w", err)
	}
	return &cfg, nil
}

// ParseRepositoryTypeConfig decodes a repository type document.
func ParseRepositoryTypeConfig(data []byte) (*config.RepositoryTypeConfig, error) {
	var cfg config.RepositoryTypeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse repository type config: %w", err)
	}
	return &cfg, nil
}

// ParseTemplateConfig decodes a template document after checking it
// against the template schema.
func ParseTemplateConfig(data []byte) (*config.TemplateConfig, error) {
	if err := ValidateTemplateDocument(data); err != nil {
		return nil, err
	}
	var cfg config.TemplateConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse template config: %w", err)
	}
	return &cfg, nil
}

// ParseStandardLabels decodes the organization labels document:
//
//	labels:
//	  - name: bug
//	    color: d73a4a
func ParseStandardLabels(data []byte) (map[string]settings.Label, error) {
	var doc struct {
		Labels []settings.Label `yaml:"labels"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse standard labels: %w", err)
	}
	labels := make(map[string]settings.Label, len(doc.Labels))
	for _, label := range doc.Labels {
		if label.Name == "" {
			return nil, fmt.Errorf("standard label without a name")
		}
		labels[label.Name] = label
	}
	return labels, nil
}

func legacyPaths(defaults *config.GlobalDefaults) []string {
	var paths []string
	if r := defaults.Repository; r != nil {
		collectLegacy(&paths, "repository.issues", r.Issues)
		collectLegacy(&paths, "repository.projects", r.Projects)
		collectLegacy(&paths, "repository.discussions", r.Discussions)
		collectLegacy(&paths, "repository.wiki", r.Wiki)
		collectLegacy(&paths, "repository.pages", r.Pages)
		collectLegacy(&paths, "repository.security_advisories", r.SecurityAdvisories)
		collectLegacy(&paths, "repository.vulnerability_reporting", r.VulnerabilityReporting)
		collectLegacy(&paths, "repository.auto_close_issues", r.AutoCloseIssues)
	}
	if pr := defaults.PullRequests; pr != nil {
		collectLegacy(&paths, "pull_requests.allow_merge_commit", pr.AllowMergeCommit)
		collectLegacy(&paths, "pull_requests.allow_squash_merge", pr.AllowSquashMerge)
		collectLegacy(&paths, "pull_requests.allow_rebase_merge", pr.AllowRebaseMerge)
		collectLegacy(&paths, "pull_requests.delete_branch_on_merge", pr.DeleteBranchOnMerge)
		collectLegacy(&paths, "pull_requests.required_approving_review_count", pr.RequiredApprovingReviewCount)
		collectLegacy(&paths, "pull_requests.require_code_owner_reviews", pr.RequireCodeOwnerReviews)
		collectLegacy(&paths, "pull_requests.require_conversation_resolution", pr.RequireConversationResolution)
		collectLegacy(&paths, "pull_requests.allow_auto_merge", pr.AllowAutoMerge)
		collectLegacy(&paths, "pull_requests.merge_commit_title", pr.MergeCommitTitle)
		collectLegacy(&paths, "pull_requests.merge_commit_message", pr.MergeCommitMessage)
		collectLegacy(&paths, "pull_requests.squash_merge_commit_title", pr.SquashMergeCommitTitle)
		collectLegacy(&paths, "pull_requests.squash_merge_commit_message", pr.SquashMergeCommitMessage)
	}
	if bp := defaults.BranchProtection; bp != nil {
		collectLegacy(&paths, "branch_protection.default_branch", bp.DefaultBranch)
		collectLegacy(&paths, "branch_protection.require_pull_request_reviews", bp.RequirePullRequestReviews)
		collectLegacy(&paths, "branch_protection.required_approving_review_count", bp.RequiredApprovingReviewCount)
		collectLegacy(&paths, "branch_protection.dismiss_stale_reviews", bp.DismissStaleReviews)
		collectLegacy(&paths, "branch_protection.require_code_owner_reviews", bp.RequireCodeOwnerReviews)
		collectLegacy(&paths, "branch_protection.require_status_checks", bp.RequireStatusChecks)
		collectLegacy(&paths, "branch_protection.strict_required_status_checks", bp.StrictStatusChecks)
		collectLegacy(&paths, "branch_protection.restrict_pushes", bp.RestrictPushes)
		collectLegacy(&paths, "branch_protection.allow_force_pushes", bp.AllowForcePushes)
		collectLegacy(&paths, "branch_protection.allow_deletions", bp.AllowDeletions)
	}
	if a := defaults.Actions; a != nil {
		collectLegacy(&paths, "actions.enabled", a.Enabled)
		collectLegacy(&paths, "actions.allowed_actions", a.AllowedActions)
		collectLegacy(&paths, "actions.github_owned_allowed", a.GitHubOwnedAllowed)
		collectLegacy(&paths, "actions.verified_allowed", a.VerifiedAllowed)
	}
	if push := defaults.Push; push != nil {
		collectLegacy(&paths, "push.max_branches_per_push", push.MaxBranchesPerPush)
		collectLegacy(&paths, "push.max_tags_per_push", push.MaxTagsPerPush)
	}
	return paths
}

func collectLegacy[T any](paths *[]string, path string, value *settings.Overridable[T]) {
	if value != nil && value.WasLegacy() {
		*paths = append(*paths, path)
	}
}
