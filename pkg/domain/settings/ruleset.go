package settings

import "gopkg.in/yaml.v3"

// Ruleset is a repository ruleset, keyed by name across levels.
type Ruleset struct {
	Name         string             `yaml:"name"`
	Target       string             `yaml:"target,omitempty"`      // defaults to "branch"
	Enforcement  string             `yaml:"enforcement,omitempty"` // defaults to "active"
	BypassActors []BypassActor      `yaml:"bypass_actors,omitempty"`
	Conditions   *RulesetConditions `yaml:"conditions,omitempty"`
	Rules        []Rule             `yaml:"rules,omitempty"`
}

// EffectiveTarget returns the target with the default applied.
func (r *Ruleset) EffectiveTarget() string {
	if r.Target == "" {
		return "branch"
	}
	return r.Target
}

// EffectiveEnforcement returns the enforcement with the default applied.
func (r *Ruleset) EffectiveEnforcement() string {
	if r.Enforcement == "" {
		return "active"
	}
	return r.Enforcement
}

// BypassActor names an actor exempt from a ruleset.
type BypassActor struct {
	ActorID    int64  `yaml:"actor_id"`
	ActorType  string `yaml:"actor_type"`
	BypassMode string `yaml:"bypass_mode,omitempty"` // defaults to "always"
}

// RulesetConditions scopes a ruleset to matching refs.
type RulesetConditions struct {
	RefName *RefNameCondition `yaml:"ref_name,omitempty"`
}

// RefNameCondition lists ref-name include and exclude patterns.
type RefNameCondition struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// Rule is a single ruleset rule. The type field selects the rule kind;
// parameter-carrying kinds decode their parameters alongside it.
type Rule struct {
	Type string `yaml:"type"`

	// Pull request rule parameters.
	PullRequest *PullRequestRule `yaml:"-"`
	// Required status checks rule parameters.
	StatusChecks *StatusChecksRule `yaml:"-"`
}

// PullRequestRule holds parameters for the pull_request rule kind.
type PullRequestRule struct {
	DismissStaleReviewsOnPush      bool `yaml:"dismiss_stale_reviews_on_push,omitempty"`
	RequireCodeOwnerReview         bool `yaml:"require_code_owner_review,omitempty"`
	RequireLastPushApproval        bool `yaml:"require_last_push_approval,omitempty"`
	RequiredApprovingReviewCount   int  `yaml:"required_approving_review_count,omitempty"`
	RequiredReviewThreadResolution bool `yaml:"required_review_thread_resolution,omitempty"`
}

// StatusChecksRule holds parameters for the required_status_checks kind.
type StatusChecksRule struct {
	Checks []StatusCheck `yaml:"required_status_checks"`
	Strict bool          `yaml:"strict_required_status_checks_policy,omitempty"`
}

// StatusCheck identifies one required check context.
type StatusCheck struct {
	Context       string `yaml:"context"`
	IntegrationID int64  `yaml:"integration_id,omitempty"`
}

type ruleDoc struct {
	Type                           string        `yaml:"type"`
	DismissStaleReviewsOnPush      *bool         `yaml:"dismiss_stale_reviews_on_push"`
	RequireCodeOwnerReview         *bool         `yaml:"require_code_owner_review"`
	RequireLastPushApproval        *bool         `yaml:"require_last_push_approval"`
	RequiredApprovingReviewCount   *int          `yaml:"required_approving_review_count"`
	RequiredReviewThreadResolution *bool         `yaml:"required_review_thread_resolution"`
	Checks                         []StatusCheck `yaml:"required_status_checks"`
	Strict                         *bool         `yaml:"strict_required_status_checks_policy"`
}

// UnmarshalYAML decodes the type-tagged rule form, attaching parameters to
// the kinds that carry them.
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	var doc ruleDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	r.Type = doc.Type
	switch doc.Type {
	case "pull_request":
		pr := &PullRequestRule{}
		if doc.DismissStaleReviewsOnPush != nil {
			pr.DismissStaleReviewsOnPush = *doc.DismissStaleReviewsOnPush
		}
		if doc.RequireCodeOwnerReview != nil {
			pr.RequireCodeOwnerReview = *doc.RequireCodeOwnerReview
		}
		if doc.RequireLastPushApproval != nil {
			pr.RequireLastPushApproval = *doc.RequireLastPushApproval
		}
		if doc.RequiredApprovingReviewCount != nil {
			pr.RequiredApprovingReviewCount = *doc.RequiredApprovingReviewCount
		}
		if doc.RequiredReviewThreadResolution != nil {
			pr.RequiredReviewThreadResolution = *doc.RequiredReviewThreadResolution
		}
		r.PullRequest = pr
	case "required_status_checks":
		sc := &StatusChecksRule{Checks: doc.Checks}
		if doc.Strict != nil {
			sc.Strict = *doc.Strict
		}
		r.StatusChecks = sc
	}
	return nil
}

// MarshalYAML emits the type-tagged rule form.
func (r Rule) MarshalYAML() (any, error) {
	out := map[string]any{"type": r.Type}
	if r.PullRequest != nil {
		out["dismiss_stale_reviews_on_push"] = r.PullRequest.DismissStaleReviewsOnPush
		out["require_code_owner_review"] = r.PullRequest.RequireCodeOwnerReview
		out["require_last_push_approval"] = r.PullRequest.RequireLastPushApproval
		out["required_approving_review_count"] = r.PullRequest.RequiredApprovingReviewCount
		out["required_review_thread_resolution"] = r.PullRequest.RequiredReviewThreadResolution
	}
	if r.StatusChecks != nil {
		out["required_status_checks"] = r.StatusChecks.Checks
		out["strict_required_status_checks_policy"] = r.StatusChecks.Strict
	}
	return out, nil
}
