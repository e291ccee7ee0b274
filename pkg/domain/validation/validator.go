package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
	"github.com/felixgeelhaar/repoforge/pkg/domain/merge"
	"github.com/felixgeelhaar/repoforge/pkg/domain/settings"
)

// Validator runs the built-in rule tiers plus any registered custom rules.
type Validator struct {
	rules []Rule
}

// NewValidator returns a validator with the built-in tiers only.
func NewValidator() *Validator {
	return &Validator{}
}

// WithRules registers custom rules, evaluated after the built-in tiers in
// registration order.
func (v *Validator) WithRules(rules ...Rule) *Validator {
	v.rules = append(v.rules, rules...)
	return v
}

// ValidateMerged checks a merged configuration. All three tiers run to
// completion; nothing short-circuits.
func (v *Validator) ValidateMerged(cfg *merge.Merged) *Result {
	result := NewResult()
	checkRepository(result, &cfg.Repository)
	checkPullRequests(result, &cfg.PullRequests)
	checkBranchProtection(result, &cfg.BranchProtection)
	checkPush(result, &cfg.Push)
	checkWebhooks(result, cfg.Webhooks)
	checkGitHubApps(result, cfg.GitHubApps)
	checkEnvironments(result, cfg.Environments)
	checkRulesets(result, cfg.Rulesets)
	checkNotifications(result, &cfg.Notifications)
	checkVisibility(result, cfg)
	v.runCustomRules(result, cfg)
	return result
}

// ValidateGlobalDefaults checks one global defaults document before any
// merge, for early feedback on the baseline itself.
func (v *Validator) ValidateGlobalDefaults(g *config.GlobalDefaults) *Result {
	result := NewResult()
	checkRepository(result, g.Repository)
	checkPullRequests(result, g.PullRequests)
	checkBranchProtection(result, g.BranchProtection)
	checkPush(result, g.Push)
	checkWebhooks(result, g.Webhooks)
	checkGitHubApps(result, g.GitHubApps)
	checkEnvironments(result, g.Environments)
	checkRulesets(result, g.Rulesets)
	return result
}

// ValidateTeamConfig checks one team document before any merge.
func (v *Validator) ValidateTeamConfig(c *config.TeamConfig) *Result {
	result := NewResult()
	checkRepository(result, c.Repository)
	checkPullRequests(result, c.PullRequests)
	checkBranchProtection(result, c.BranchProtection)
	checkPush(result, c.Push)
	checkWebhooks(result, c.Webhooks)
	checkGitHubApps(result, c.GitHubApps)
	checkEnvironments(result, c.Environments)
	checkRulesets(result, c.Rulesets)
	checkNotifications(result, c.Notifications)
	return result
}

// ValidateRepositoryTypeConfig checks one repository type document.
func (v *Validator) ValidateRepositoryTypeConfig(c *config.RepositoryTypeConfig) *Result {
	result := NewResult()
	checkRepository(result, c.Repository)
	checkPullRequests(result, c.PullRequests)
	checkBranchProtection(result, c.BranchProtection)
	checkWebhooks(result, c.Webhooks)
	checkGitHubApps(result, c.GitHubApps)
	checkEnvironments(result, c.Environments)
	checkRulesets(result, c.Rulesets)
	checkNotifications(result, c.Notifications)
	return result
}

// ValidateTemplateConfig checks one template document.
func (v *Validator) ValidateTemplateConfig(c *config.TemplateConfig) *Result {
	result := NewResult()
	if c.Template.Name == "" {
		result.AddError(Issue{
			Kind:       KindRequiredFieldMissing,
			FieldPath:  "template.name",
			Message:    "Template name is required",
			Suggestion: "Set template.name in the template configuration",
		})
	}
	checkRepository(result, c.Repository)
	checkPullRequests(result, c.PullRequests)
	checkBranchProtection(result, c.BranchProtection)
	checkWebhooks(result, c.Webhooks)
	checkGitHubApps(result, c.GitHubApps)
	checkEnvironments(result, c.Environments)
	checkRulesets(result, c.Rulesets)
	checkNotifications(result, c.Notifications)
	if c.DefaultVisibility != nil && !c.DefaultVisibility.IsValid() {
		result.AddError(Issue{
			Kind:       KindInvalidValue,
			FieldPath:  "default_visibility",
			Message:    fmt.Sprintf("Unknown visibility %q", *c.DefaultVisibility),
			Suggestion: "Use public, private, or internal",
		})
	}
	return result
}

func (v *Validator) runCustomRules(result *Result, cfg *merge.Merged) {
	if len(v.rules) == 0 {
		return
	}
	paths := cfg.Trace.Paths()
	for _, rule := range v.rules {
		for _, fieldPath := range paths {
			if !rule.Matches(fieldPath) {
				continue
			}
			if issue := rule.Check(cfg, fieldPath); issue != nil {
				result.AddError(*issue)
			}
		}
	}
}

// Tier: security policy. These hold for the merged result regardless of
// which level supplied the value.

func checkRepository(result *Result, repo *settings.RepositorySettings) {
	if repo == nil {
		return
	}
	if repo.SecurityAdvisories != nil && !repo.SecurityAdvisories.Value {
		result.AddError(Issue{
			Kind:       KindBusinessRuleViolation,
			FieldPath:  "repository.security_advisories",
			Message:    "Security advisories cannot be disabled",
			Suggestion: "Remove the setting or set it to true",
		})
	}
	if repo.VulnerabilityReporting != nil && !repo.VulnerabilityReporting.Value {
		result.AddError(Issue{
			Kind:       KindBusinessRuleViolation,
			FieldPath:  "repository.vulnerability_reporting",
			Message:    "Vulnerability reporting cannot be disabled",
			Suggestion: "Remove the setting or set it to true",
		})
	}
}

func checkPullRequests(result *Result, pr *settings.PullRequestSettings) {
	if pr == nil {
		return
	}
	if pr.RequiredApprovingReviewCount != nil && pr.RequiredApprovingReviewCount.Value < 0 {
		result.AddError(Issue{
			Kind:       KindInvalidValue,
			FieldPath:  "pull_requests.required_approving_review_count",
			Message:    "Required approving review count cannot be negative",
			Suggestion: "Use zero or a positive count",
		})
	}
}

func checkBranchProtection(result *Result, bp *settings.BranchProtectionSettings) {
	if bp == nil {
		return
	}
	if bp.RequiredApprovingReviewCount != nil && bp.RequiredApprovingReviewCount.Value < 0 {
		result.AddError(Issue{
			Kind:       KindInvalidValue,
			FieldPath:  "branch_protection.required_approving_review_count",
			Message:    "Required approving review count cannot be negative",
			Suggestion: "Use zero or a positive count",
		})
	}
	if bp.RequireStatusChecks != nil && bp.RequireStatusChecks.Value && len(bp.RequiredStatusChecks) == 0 {
		result.AddError(Issue{
			Kind:       KindBusinessRuleViolation,
			FieldPath:  "branch_protection.required_status_checks_list",
			Message:    "Status checks are required but no checks are listed",
			Suggestion: "List the required check contexts or disable require_status_checks",
		})
	}
	if bp.RequirePullRequestReviews != nil && bp.RequirePullRequestReviews.Value &&
		bp.RequiredApprovingReviewCount == nil {
		result.AddError(Issue{
			Kind:       KindBusinessRuleViolation,
			FieldPath:  "branch_protection.required_approving_review_count",
			Message:    "Pull request reviews are required but no review count is set",
			Suggestion: "Set required_approving_review_count",
		})
	}
}

func checkPush(result *Result, push *settings.PushSettings) {
	if push == nil {
		return
	}
	if push.MaxBranchesPerPush != nil && push.MaxBranchesPerPush.Value < 1 {
		result.AddError(Issue{
			Kind:      KindInvalidValue,
			FieldPath: "push.max_branches_per_push",
			Message:   "Branch limit per push must be at least 1",
		})
	}
	if push.MaxTagsPerPush != nil && push.MaxTagsPerPush.Value < 1 {
		result.AddError(Issue{
			Kind:      KindInvalidValue,
			FieldPath: "push.max_tags_per_push",
			Message:   "Tag limit per push must be at least 1",
		})
	}
}

func checkWebhooks(result *Result, hooks []settings.Webhook) {
	for i, hook := range hooks {
		fieldPath := fmt.Sprintf("webhooks[%d]", i)
		parsed, err := url.Parse(hook.URL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			result.AddError(Issue{
				Kind:       KindInvalidValue,
				FieldPath:  fieldPath + ".url",
				Message:    fmt.Sprintf("Webhook URL %q is not a valid http(s) URL", hook.URL),
				Suggestion: "Use an https:// URL",
			})
		} else if parsed.Scheme == "http" {
			result.AddWarning(Warning{
				FieldPath:      fieldPath + ".url",
				Message:        "Webhook uses unencrypted HTTP",
				Recommendation: "Switch the endpoint to HTTPS",
			})
		}
		if len(hook.Events) == 0 {
			result.AddError(Issue{
				Kind:       KindSchemaViolation,
				FieldPath:  fieldPath + ".events",
				Message:    "Webhook must have at least one event",
				Suggestion: "Subscribe the webhook to the events it should receive",
			})
		}
	}
}

func checkGitHubApps(result *Result, apps []settings.GitHubApp) {
	for i, app := range apps {
		fieldPath := fmt.Sprintf("github_apps[%d]", i)
		if app.AppID <= 0 {
			result.AddError(Issue{
				Kind:      KindInvalidValue,
				FieldPath: fieldPath + ".app_id",
				Message:   "App ID must be positive",
			})
		}
		if len(app.Permissions) == 0 {
			result.AddError(Issue{
				Kind:       KindSchemaViolation,
				FieldPath:  fieldPath + ".permissions",
				Message:    "App installation must grant at least one permission",
				Suggestion: "List the permissions the app needs",
			})
		}
	}
}

func checkEnvironments(result *Result, envs []settings.Environment) {
	for i, env := range envs {
		fieldPath := fmt.Sprintf("environments[%d]", i)
		if strings.TrimSpace(env.Name) == "" {
			result.AddError(Issue{
				Kind:      KindRequiredFieldMissing,
				FieldPath: fieldPath + ".name",
				Message:   "Environment name is required",
			})
		}
		if env.ProtectionRules != nil && env.ProtectionRules.WaitTimer < 0 {
			result.AddError(Issue{
				Kind:      KindInvalidValue,
				FieldPath: fieldPath + ".protection_rules.wait_timer",
				Message:   "Wait timer cannot be negative",
			})
		}
	}
}

func checkRulesets(result *Result, rulesets []settings.Ruleset) {
	for i, rs := range rulesets {
		fieldPath := fmt.Sprintf("rulesets[%d]", i)
		if strings.TrimSpace(rs.Name) == "" {
			result.AddError(Issue{
				Kind:      KindRequiredFieldMissing,
				FieldPath: fieldPath + ".name",
				Message:   "Ruleset name is required",
			})
		}
		for j, rule := range rs.Rules {
			if rule.Type == "required_status_checks" &&
				(rule.StatusChecks == nil || len(rule.StatusChecks.Checks) == 0) {
				result.AddError(Issue{
					Kind:      KindSchemaViolation,
					FieldPath: fmt.Sprintf("%s.rules[%d]", fieldPath, j),
					Message:   "Status check rule must list at least one check",
				})
			}
		}
	}
}

func checkNotifications(result *Result, cfg *settings.NotificationsConfig) {
	if cfg == nil {
		return
	}
	for i, endpoint := range cfg.OutboundWebhooks {
		if err := endpoint.Validate(); err != nil {
			result.AddError(Issue{
				Kind:      KindBusinessRuleViolation,
				FieldPath: fmt.Sprintf("notifications.outbound_webhooks[%d]", i),
				Message:   err.Error(),
			})
		}
	}
}

func checkVisibility(result *Result, cfg *merge.Merged) {
	if cfg.Visibility == nil || cfg.VisibilityPolicy == nil {
		return
	}
	if err := cfg.VisibilityPolicy.Check(*cfg.Visibility); err != nil {
		result.AddError(Issue{
			Kind:       KindBusinessRuleViolation,
			FieldPath:  "default_visibility",
			Message:    err.Error(),
			Suggestion: "Pick a visibility the organization policy permits",
		})
	}
}
