package settings

// RepositorySettings holds repository feature toggles. Every field is
// optional; a nil field means the level expresses no opinion.
type RepositorySettings struct {
	Issues                 *Overridable[bool] `yaml:"issues,omitempty"`
	Projects               *Overridable[bool] `yaml:"projects,omitempty"`
	Discussions            *Overridable[bool] `yaml:"discussions,omitempty"`
	Wiki                   *Overridable[bool] `yaml:"wiki,omitempty"`
	Pages                  *Overridable[bool] `yaml:"pages,omitempty"`
	SecurityAdvisories     *Overridable[bool] `yaml:"security_advisories,omitempty"`
	VulnerabilityReporting *Overridable[bool] `yaml:"vulnerability_reporting,omitempty"`
	AutoCloseIssues        *Overridable[bool] `yaml:"auto_close_issues,omitempty"`
}

// PullRequestSettings holds merge strategy and review requirements.
type PullRequestSettings struct {
	AllowMergeCommit              *Overridable[bool]   `yaml:"allow_merge_commit,omitempty"`
	AllowSquashMerge              *Overridable[bool]   `yaml:"allow_squash_merge,omitempty"`
	AllowRebaseMerge              *Overridable[bool]   `yaml:"allow_rebase_merge,omitempty"`
	DeleteBranchOnMerge           *Overridable[bool]   `yaml:"delete_branch_on_merge,omitempty"`
	RequiredApprovingReviewCount  *Overridable[int]    `yaml:"required_approving_review_count,omitempty"`
	RequireCodeOwnerReviews       *Overridable[bool]   `yaml:"require_code_owner_reviews,omitempty"`
	RequireConversationResolution *Overridable[bool]   `yaml:"require_conversation_resolution,omitempty"`
	AllowAutoMerge                *Overridable[bool]   `yaml:"allow_auto_merge,omitempty"`
	MergeCommitTitle              *Overridable[string] `yaml:"merge_commit_title,omitempty"`
	MergeCommitMessage            *Overridable[string] `yaml:"merge_commit_message,omitempty"`
	SquashMergeCommitTitle        *Overridable[string] `yaml:"squash_merge_commit_title,omitempty"`
	SquashMergeCommitMessage      *Overridable[string] `yaml:"squash_merge_commit_message,omitempty"`
}

// BranchProtectionSettings holds default-branch protection rules. The
// status-check list travels as a plain list; its presence is governed by
// RequireStatusChecks.
type BranchProtectionSettings struct {
	DefaultBranch                *Overridable[string] `yaml:"default_branch,omitempty"`
	RequirePullRequestReviews    *Overridable[bool]   `yaml:"require_pull_request_reviews,omitempty"`
	RequiredApprovingReviewCount *Overridable[int]    `yaml:"required_approving_review_count,omitempty"`
	DismissStaleReviews          *Overridable[bool]   `yaml:"dismiss_stale_reviews,omitempty"`
	RequireCodeOwnerReviews      *Overridable[bool]   `yaml:"require_code_owner_reviews,omitempty"`
	RequireStatusChecks          *Overridable[bool]   `yaml:"require_status_checks,omitempty"`
	RequiredStatusChecks         []string             `yaml:"required_status_checks_list,omitempty"`
	StrictStatusChecks           *Overridable[bool]   `yaml:"strict_required_status_checks,omitempty"`
	RestrictPushes               *Overridable[bool]   `yaml:"restrict_pushes,omitempty"`
	AllowForcePushes             *Overridable[bool]   `yaml:"allow_force_pushes,omitempty"`
	AllowDeletions               *Overridable[bool]   `yaml:"allow_deletions,omitempty"`
	AdditionalProtectedPatterns  []string             `yaml:"additional_protected_patterns,omitempty"`
}

// ActionSettings controls GitHub Actions availability.
type ActionSettings struct {
	Enabled            *Overridable[bool]   `yaml:"enabled,omitempty"`
	AllowedActions     *Overridable[string] `yaml:"allowed_actions,omitempty"`
	GitHubOwnedAllowed *Overridable[bool]   `yaml:"github_owned_allowed,omitempty"`
	VerifiedAllowed    *Overridable[bool]   `yaml:"verified_allowed,omitempty"`
	PatternsAllowed    []string             `yaml:"patterns_allowed,omitempty"`
}

// PushSettings limits bulk ref updates.
type PushSettings struct {
	MaxBranchesPerPush *Overridable[int] `yaml:"max_branches_per_push,omitempty"`
	MaxTagsPerPush     *Overridable[int] `yaml:"max_tags_per_push,omitempty"`
}
