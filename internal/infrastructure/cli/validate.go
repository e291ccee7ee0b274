package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <org>",
	Short: "Validate every configuration document of an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		org := args[0]
		services := buildServices(cmd.Context())

		reports, err := services.Validation.ValidateOrganization(cmd.Context(), org)
		if err != nil {
			return err
		}

		columns := []table.Column{
			{Title: "Level", Width: 16},
			{Title: "Name", Width: 24},
			{Title: "Errors", Width: 8},
			{Title: "Warnings", Width: 8},
		}
		rows := []table.Row{}
		invalid := 0
		for _, report := range reports {
			if !report.Result.Valid() {
				invalid++
			}
			rows = append(rows, table.Row{
				report.Level,
				report.Name,
				fmt.Sprintf("%d", len(report.Result.Errors)),
				fmt.Sprintf("%d", len(report.Result.Warnings)),
			})
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

		fmt.Printf("🔍 Validation of %s (%d documents)\n", org, len(reports))
		fmt.Println(t.View())

		for _, report := range reports {
			if report.Result.Valid() && len(report.Result.Warnings) == 0 {
				continue
			}
			fmt.Printf("\n%s/%s:\n", report.Level, report.Name)
			for _, issue := range report.Result.Errors {
				fmt.Printf("   ❌ %s\n", issue)
			}
			for _, warning := range report.Result.Warnings {
				fmt.Printf("   ⚠️  %s\n", warning)
			}
		}

		if invalid > 0 {
			return fmt.Errorf("%d document(s) failed validation", invalid)
		}
		fmt.Println("\n✅ All documents are valid")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
