package settings

// Label is a repository issue label. Labels are additive across levels and
// keyed by name.
type Label struct {
	Name        string `yaml:"name"`
	Color       string `yaml:"color"`
	Description string `yaml:"description,omitempty"`
}

// Webhook is an outbound repository webhook, keyed by URL.
type Webhook struct {
	URL         string   `yaml:"url"`
	ContentType string   `yaml:"content_type,omitempty"`
	Secret      string   `yaml:"secret,omitempty"`
	Active      bool     `yaml:"active"`
	Events      []string `yaml:"events"`
}

// GitHubApp is an app installation grant, keyed by app ID.
type GitHubApp struct {
	AppID       int64             `yaml:"app_id"`
	Permissions map[string]string `yaml:"permissions"`
}

// Environment is a deployment environment, keyed by name.
type Environment struct {
	Name                   string                  `yaml:"name"`
	ProtectionRules        *ProtectionRules        `yaml:"protection_rules,omitempty"`
	DeploymentBranchPolicy *DeploymentBranchPolicy `yaml:"deployment_branch_policy,omitempty"`
}

// ProtectionRules gates deployments to an environment.
type ProtectionRules struct {
	RequiredReviewers []string `yaml:"required_reviewers,omitempty"`
	WaitTimer         int      `yaml:"wait_timer,omitempty"`
}

// DeploymentBranchPolicy restricts which branches may deploy.
type DeploymentBranchPolicy struct {
	ProtectedBranches    bool     `yaml:"protected_branches"`
	CustomBranchPatterns []string `yaml:"custom_branch_patterns,omitempty"`
}

// CustomProperty assigns an organization custom property value, keyed by
// property name. The value may be a string, a string list, or a boolean;
// YAML's untyped decoding covers all three.
type CustomProperty struct {
	PropertyName string `yaml:"property_name"`
	Value        any    `yaml:"value"`
}
