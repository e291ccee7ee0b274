package merge

import (
	"errors"
	"fmt"
	"slices"

	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
	"github.com/felixgeelhaar/repoforge/pkg/domain/settings"
)

// Merger folds the hierarchy levels into a Merged configuration.
type Merger struct{}

// NewMerger returns a Merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Merge applies the levels in fixed order: global defaults, repository
// type, team, template. Nil optional levels are skipped; global defaults
// are required. Every override violation is collected rather than aborting
// the fold, and the returned Merged is fully populated even when the
// returned error is an *OverrideError.
func (m *Merger) Merge(
	global *config.GlobalDefaults,
	repositoryType *config.RepositoryTypeConfig,
	team *config.TeamConfig,
	template *config.TemplateConfig,
) (*Merged, error) {
	if global == nil {
		return nil, errors.New("merge requires global defaults")
	}

	p := &pass{out: NewMerged()}
	p.applyGlobal(global)
	if repositoryType != nil {
		p.applyRepositoryType(repositoryType)
	}
	if team != nil {
		p.applyTeam(team)
	}
	if template != nil {
		p.applyTemplate(template)
	}

	if len(p.violations) > 0 {
		return p.out, &OverrideError{Violations: p.violations}
	}
	return p.out, nil
}

type pass struct {
	out        *Merged
	violations []OverrideViolation
}

func (p *pass) applyGlobal(g *config.GlobalDefaults) {
	p.applyRepositorySettings(g.Repository, SourceGlobal)
	p.applyPullRequestSettings(g.PullRequests, SourceGlobal)
	p.applyBranchProtection(g.BranchProtection, SourceGlobal)
	p.applyActions(g.Actions, SourceGlobal)
	p.applyPush(g.Push, SourceGlobal)
	p.applyWebhooks(g.Webhooks, SourceGlobal)
	p.applyCustomProperties(g.CustomProperties, SourceGlobal)
	p.applyEnvironments(g.Environments, SourceGlobal)
	p.applyGitHubApps(g.GitHubApps, SourceGlobal)
	p.applyRulesets(g.Rulesets, SourceGlobal)
	p.out.VisibilityPolicy = g.Visibility
}

func (p *pass) applyRepositoryType(c *config.RepositoryTypeConfig) {
	p.applyRepositorySettings(c.Repository, SourceRepositoryType)
	p.applyPullRequestSettings(c.PullRequests, SourceRepositoryType)
	p.applyBranchProtection(c.BranchProtection, SourceRepositoryType)
	p.applyLabels(c.Labels, SourceRepositoryType)
	p.applyWebhooks(c.Webhooks, SourceRepositoryType)
	p.applyCustomProperties(c.CustomProperties, SourceRepositoryType)
	p.applyEnvironments(c.Environments, SourceRepositoryType)
	p.applyGitHubApps(c.GitHubApps, SourceRepositoryType)
	p.applyRulesets(c.Rulesets, SourceRepositoryType)
	p.applyNotifications(c.Notifications, SourceRepositoryType)
}

func (p *pass) applyTeam(c *config.TeamConfig) {
	p.applyRepositorySettings(c.Repository, SourceTeam)
	p.applyPullRequestSettings(c.PullRequests, SourceTeam)
	p.applyBranchProtection(c.BranchProtection, SourceTeam)
	p.applyActions(c.Actions, SourceTeam)
	p.applyPush(c.Push, SourceTeam)
	p.applyWebhooks(c.Webhooks, SourceTeam)
	p.applyCustomProperties(c.CustomProperties, SourceTeam)
	p.applyEnvironments(c.Environments, SourceTeam)
	p.applyGitHubApps(c.GitHubApps, SourceTeam)
	p.applyRulesets(c.Rulesets, SourceTeam)
	p.applyNotifications(c.Notifications, SourceTeam)
}

func (p *pass) applyTemplate(c *config.TemplateConfig) {
	p.applyRepositorySettings(c.Repository, SourceTemplate)
	p.applyPullRequestSettings(c.PullRequests, SourceTemplate)
	p.applyBranchProtection(c.BranchProtection, SourceTemplate)
	p.applyLabels(c.Labels, SourceTemplate)
	p.applyWebhooks(c.Webhooks, SourceTemplate)
	p.applyEnvironments(c.Environments, SourceTemplate)
	p.applyGitHubApps(c.GitHubApps, SourceTemplate)
	p.applyRulesets(c.Rulesets, SourceTemplate)
	p.applyNotifications(c.Notifications, SourceTemplate)
	if c.DefaultVisibility != nil {
		v := *c.DefaultVisibility
		p.out.Visibility = &v
		p.out.Trace.Record("default_visibility", SourceTemplate)
	}
}

func (p *pass) applyRepositorySettings(src *settings.RepositorySettings, from Source) {
	if src == nil {
		return
	}
	dst := &p.out.Repository
	applyScalar(p, &dst.Issues, src.Issues, "repository.issues", from)
	applyScalar(p, &dst.Projects, src.Projects, "repository.projects", from)
	applyScalar(p, &dst.Discussions, src.Discussions, "repository.discussions", from)
	applyScalar(p, &dst.Wiki, src.Wiki, "repository.wiki", from)
	applyScalar(p, &dst.Pages, src.Pages, "repository.pages", from)
	applyScalar(p, &dst.SecurityAdvisories, src.SecurityAdvisories, "repository.security_advisories", from)
	applyScalar(p, &dst.VulnerabilityReporting, src.VulnerabilityReporting, "repository.vulnerability_reporting", from)
	applyScalar(p, &dst.AutoCloseIssues, src.AutoCloseIssues, "repository.auto_close_issues", from)
}

func (p *pass) applyPullRequestSettings(src *settings.PullRequestSettings, from Source) {
	if src == nil {
		return
	}
	dst := &p.out.PullRequests
	applyScalar(p, &dst.AllowMergeCommit, src.AllowMergeCommit, "pull_requests.allow_merge_commit", from)
	applyScalar(p, &dst.AllowSquashMerge, src.AllowSquashMerge, "pull_requests.allow_squash_merge", from)
	applyScalar(p, &dst.AllowRebaseMerge, src.AllowRebaseMerge, "pull_requests.allow_rebase_merge", from)
	applyScalar(p, &dst.DeleteBranchOnMerge, src.DeleteBranchOnMerge, "pull_requests.delete_branch_on_merge", from)
	applyScalar(p, &dst.RequiredApprovingReviewCount, src.RequiredApprovingReviewCount, "pull_requests.required_approving_review_count", from)
	applyScalar(p, &dst.RequireCodeOwnerReviews, src.RequireCodeOwnerReviews, "pull_requests.require_code_owner_reviews", from)
	applyScalar(p, &dst.RequireConversationResolution, src.RequireConversationResolution, "pull_requests.require_conversation_resolution", from)
	applyScalar(p, &dst.AllowAutoMerge, src.AllowAutoMerge, "pull_requests.allow_auto_merge", from)
	applyScalar(p, &dst.MergeCommitTitle, src.MergeCommitTitle, "pull_requests.merge_commit_title", from)
	applyScalar(p, &dst.MergeCommitMessage, src.MergeCommitMessage, "pull_requests.merge_commit_message", from)
	applyScalar(p, &dst.SquashMergeCommitTitle, src.SquashMergeCommitTitle, "pull_requests.squash_merge_commit_title", from)
	applyScalar(p, &dst.SquashMergeCommitMessage, src.SquashMergeCommitMessage, "pull_requests.squash_merge_commit_message", from)
}

func (p *pass) applyBranchProtection(src *settings.BranchProtectionSettings, from Source) {
	if src == nil {
		return
	}
	dst := &p.out.BranchProtection
	applyScalar(p, &dst.DefaultBranch, src.DefaultBranch, "branch_protection.default_branch", from)
	applyScalar(p, &dst.RequirePullRequestReviews, src.RequirePullRequestReviews, "branch_protection.require_pull_request_reviews", from)
	applyScalar(p, &dst.RequiredApprovingReviewCount, src.RequiredApprovingReviewCount, "branch_protection.required_approving_review_count", from)
	applyScalar(p, &dst.DismissStaleReviews, src.DismissStaleReviews, "branch_protection.dismiss_stale_reviews", from)
	applyScalar(p, &dst.RequireCodeOwnerReviews, src.RequireCodeOwnerReviews, "branch_protection.require_code_owner_reviews", from)
	applyScalar(p, &dst.RequireStatusChecks, src.RequireStatusChecks, "branch_protection.require_status_checks", from)
	applyScalar(p, &dst.StrictStatusChecks, src.StrictStatusChecks, "branch_protection.strict_required_status_checks", from)
	applyScalar(p, &dst.RestrictPushes, src.RestrictPushes, "branch_protection.restrict_pushes", from)
	applyScalar(p, &dst.AllowForcePushes, src.AllowForcePushes, "branch_protection.allow_force_pushes", from)
	applyScalar(p, &dst.AllowDeletions, src.AllowDeletions, "branch_protection.allow_deletions", from)
	applyList(p, &dst.RequiredStatusChecks, src.RequiredStatusChecks, "branch_protection.required_status_checks_list", from)
	applyList(p, &dst.AdditionalProtectedPatterns, src.AdditionalProtectedPatterns, "branch_protection.additional_protected_patterns", from)
}

func (p *pass) applyActions(src *settings.ActionSettings, from Source) {
	if src == nil {
		return
	}
	dst := &p.out.Actions
	applyScalar(p, &dst.Enabled, src.Enabled, "actions.enabled", from)
	applyScalar(p, &dst.AllowedActions, src.AllowedActions, "actions.allowed_actions", from)
	applyScalar(p, &dst.GitHubOwnedAllowed, src.GitHubOwnedAllowed, "actions.github_owned_allowed", from)
	applyScalar(p, &dst.VerifiedAllowed, src.VerifiedAllowed, "actions.verified_allowed", from)
	applyList(p, &dst.PatternsAllowed, src.PatternsAllowed, "actions.patterns_allowed", from)
}

func (p *pass) applyPush(src *settings.PushSettings, from Source) {
	if src == nil {
		return
	}
	dst := &p.out.Push
	applyScalar(p, &dst.MaxBranchesPerPush, src.MaxBranchesPerPush, "push.max_branches_per_push", from)
	applyScalar(p, &dst.MaxTagsPerPush, src.MaxTagsPerPush, "push.max_tags_per_push", from)
}

func (p *pass) applyLabels(src []settings.Label, from Source) {
	for _, label := range src {
		p.out.Labels[label.Name] = label
		p.out.Trace.Record("labels."+label.Name, from)
	}
}

func (p *pass) applyWebhooks(src []settings.Webhook, from Source) {
	for _, hook := range src {
		p.out.Webhooks = upsert(p.out.Webhooks, hook, func(existing settings.Webhook) bool {
			return existing.URL == hook.URL
		})
		p.out.Trace.Record("webhooks."+hook.URL, from)
	}
}

func (p *pass) applyCustomProperties(src []settings.CustomProperty, from Source) {
	for _, prop := range src {
		p.out.CustomProperties = upsert(p.out.CustomProperties, prop, func(existing settings.CustomProperty) bool {
			return existing.PropertyName == prop.PropertyName
		})
		p.out.Trace.Record("custom_properties."+prop.PropertyName, from)
	}
}

func (p *pass) applyEnvironments(src []settings.Environment, from Source) {
	for _, env := range src {
		p.out.Environments = upsert(p.out.Environments, env, func(existing settings.Environment) bool {
			return existing.Name == env.Name
		})
		p.out.Trace.Record("environments."+env.Name, from)
	}
}

func (p *pass) applyGitHubApps(src []settings.GitHubApp, from Source) {
	for _, app := range src {
		p.out.GitHubApps = upsert(p.out.GitHubApps, app, func(existing settings.GitHubApp) bool {
			return existing.AppID == app.AppID
		})
		p.out.Trace.Record(fmt.Sprintf("github_apps.%d", app.AppID), from)
	}
}

func (p *pass) applyRulesets(src []settings.Ruleset, from Source) {
	for _, rs := range src {
		p.out.Rulesets = upsert(p.out.Rulesets, rs, func(existing settings.Ruleset) bool {
			return existing.Name == rs.Name
		})
		p.out.Trace.Record("rulesets."+rs.Name, from)
	}
}

func (p *pass) applyNotifications(src *settings.NotificationsConfig, from Source) {
	if src == nil {
		return
	}
	for _, endpoint := range src.OutboundWebhooks {
		p.out.Notifications.OutboundWebhooks = upsert(p.out.Notifications.OutboundWebhooks, endpoint,
			func(existing settings.NotificationEndpoint) bool {
				return existing.URL == endpoint.URL
			})
		p.out.Trace.Record("notifications.outbound_webhooks."+endpoint.URL, from)
	}
}

// applyScalar writes src over dst unless dst holds a fixed value with a
// different payload. Re-asserting the identical value over a fixed field is
// a no-op, not a violation, and the protection stays in place.
func applyScalar[T comparable](p *pass, dst **settings.Overridable[T], src *settings.Overridable[T], path string, from Source) {
	if src == nil {
		return
	}
	current := *dst
	if current != nil && !current.OverrideAllowed {
		if current.Value == src.Value {
			return
		}
		protectedBy, _ := p.out.Trace.Level(path)
		p.violations = append(p.violations, OverrideViolation{
			FieldPath:   path,
			Attempted:   fmt.Sprint(src.Value),
			Protected:   fmt.Sprint(current.Value),
			ProtectedBy: protectedBy,
			AttemptedBy: from,
		})
		return
	}
	copied := *src
	*dst = &copied
	p.out.Trace.Record(path, from)
}

// applyList replaces the whole list when the level supplies one. Plain
// lists carry no override policy.
func applyList(p *pass, dst *[]string, src []string, path string, from Source) {
	if len(src) == 0 {
		return
	}
	*dst = slices.Clone(src)
	p.out.Trace.Record(path, from)
}

func upsert[T any](list []T, item T, match func(T) bool) []T {
	for i := range list {
		if match(list[i]) {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}
