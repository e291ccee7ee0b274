package merge

import (
	"sort"

	"github.com/felixgeelhaar/repoforge/pkg/domain/settings"
)

// Merged is the resolved configuration produced by one merge pass. It is
// not mutated after Merge returns.
type Merged struct {
	Repository       settings.RepositorySettings
	PullRequests     settings.PullRequestSettings
	BranchProtection settings.BranchProtectionSettings
	Actions          settings.ActionSettings
	Push             settings.PushSettings

	Labels           map[string]settings.Label
	Webhooks         []settings.Webhook
	CustomProperties []settings.CustomProperty
	Environments     []settings.Environment
	GitHubApps       []settings.GitHubApp
	Rulesets         []settings.Ruleset
	Notifications    settings.NotificationsConfig

	Visibility       *settings.Visibility
	VisibilityPolicy *settings.VisibilityPolicy

	Trace *SourceTrace
}

// AddBaselineLabels inserts organization standard labels for every name no
// level defined explicitly. Existing entries always win.
func (m *Merged) AddBaselineLabels(labels map[string]settings.Label) {
	for name, label := range labels {
		if _, ok := m.Labels[name]; !ok {
			m.Labels[name] = label
			m.Trace.Record("labels."+name, SourceGlobal)
		}
	}
}

// NewMerged returns an empty result with initialized collections.
func NewMerged() *Merged {
	return &Merged{
		Labels: make(map[string]settings.Label),
		Trace:  NewSourceTrace(),
	}
}

// SortedLabels returns the labels ordered by name, for stable output.
func (m *Merged) SortedLabels() []settings.Label {
	labels := make([]settings.Label, 0, len(m.Labels))
	for _, l := range m.Labels {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })
	return labels
}
