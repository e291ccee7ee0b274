package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/repoforge/pkg/application"
	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
	"github.com/felixgeelhaar/repoforge/pkg/domain/merge"
)

var (
	resolveTeam string
	resolveType string
	resolveJSON bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <org> [template]",
	Short: "Resolve the merged configuration for a provisioning request",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		org := args[0]
		template := ""
		if len(args) > 1 {
			template = args[1]
		}

		rc := config.NewContext(org, template)
		if resolveTeam != "" {
			rc = rc.WithTeam(resolveTeam)
		}
		if resolveType != "" {
			rc = rc.WithRepositoryType(resolveType)
		}

		services := buildServices(cmd.Context())
		resolution, err := services.Resolution.Resolve(cmd.Context(), rc)
		if err != nil {
			return err
		}

		if resolveJSON {
			if err := printResolutionJSON(resolution); err != nil {
				return err
			}
		} else {
			printResolution(resolution)
		}
		if !resolution.Validation.Valid() {
			return fmt.Errorf("resolved configuration is invalid (%d errors)", len(resolution.Validation.Errors))
		}
		return nil
	},
}

func printResolution(res *application.Resolution) {
	fmt.Printf("🔧 Resolution %s\n", res.ID)
	fmt.Printf("   org=%s template=%s team=%s type=%s\n\n",
		res.Context.Organization, orDash(res.Context.Template),
		orDash(res.Context.Team), orDash(res.Context.RepositoryType))

	summary := res.Config.Trace.Summary()
	columns := []table.Column{
		{Title: "Level", Width: 18},
		{Title: "Fields", Width: 8},
	}
	rows := []table.Row{}
	for _, src := range []merge.Source{merge.SourceGlobal, merge.SourceRepositoryType, merge.SourceTeam, merge.SourceTemplate} {
		rows = append(rows, table.Row{src.String(), fmt.Sprintf("%d", summary[src])})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	fmt.Println(t.View())

	fmt.Printf("Labels: %d  Webhooks: %d  Environments: %d  Rulesets: %d  Apps: %d\n",
		len(res.Config.Labels), len(res.Config.Webhooks),
		len(res.Config.Environments), len(res.Config.Rulesets), len(res.Config.GitHubApps))

	if len(res.Validation.Errors) > 0 {
		fmt.Printf("\n❌ %d validation error(s):\n", len(res.Validation.Errors))
		for _, issue := range res.Validation.Errors {
			fmt.Printf("   - %s\n", issue)
		}
	}
	if len(res.Validation.Warnings) > 0 {
		fmt.Printf("\n⚠️  %d warning(s):\n", len(res.Validation.Warnings))
		for _, warning := range res.Validation.Warnings {
			fmt.Printf("   - %s\n", warning)
		}
	}
	if res.Validation.Valid() {
		fmt.Println("\n✅ Configuration is valid")
	}
}

type resolutionView struct {
	ID       string            `json:"id"`
	Org      string            `json:"org"`
	Template string            `json:"template,omitempty"`
	Team     string            `json:"team,omitempty"`
	Type     string            `json:"repository_type,omitempty"`
	Sources  map[string]string `json:"sources"`
	Labels   []string          `json:"labels"`
	Valid    bool              `json:"valid"`
	Errors   []string          `json:"errors,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

func printResolutionJSON(res *application.Resolution) error {
	sources := make(map[string]string, res.Config.Trace.Count())
	for _, path := range res.Config.Trace.Paths() {
		src, _ := res.Config.Trace.Level(path)
		sources[path] = src.String()
	}
	var labels []string
	for _, label := range res.Config.SortedLabels() {
		labels = append(labels, label.Name)
	}
	view := resolutionView{
		ID:       res.ID,
		Org:      res.Context.Organization,
		Template: res.Context.Template,
		Team:     res.Context.Team,
		Type:     res.Context.RepositoryType,
		Sources:  sources,
		Labels:   labels,
		Valid:    res.Validation.Valid(),
	}
	for _, issue := range res.Validation.Errors {
		view.Errors = append(view.Errors, issue.String())
	}
	for _, warning := range res.Validation.Warnings {
		view.Warnings = append(view.Warnings, warning.String())
	}
	out, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	resolveCmd.Flags().StringVar(&resolveTeam, "team", "", "owning team")
	resolveCmd.Flags().StringVar(&resolveType, "type", "", "repository type")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print the resolution as JSON")
	RootCmd.AddCommand(resolveCmd)
}
