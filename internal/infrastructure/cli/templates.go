package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates <org>",
	Short: "List the templates an organization provides",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		org := args[0]
		services := buildServices(cmd.Context())

		names, err := services.Provider.ListTemplates(cmd.Context(), org)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Printf("📦 No templates found for %s\n", org)
			return nil
		}

		rows := []table.Row{}
		for _, name := range names {
			cfg, err := services.Templates.Load(cmd.Context(), org, name)
			if err != nil {
				rows = append(rows, table.Row{name, "(unreadable)", "-", "-"})
				continue
			}
			repoType := "-"
			if cfg.RepositoryType != nil {
				repoType = fmt.Sprintf("%s (%s)", cfg.RepositoryType.Type, cfg.RepositoryType.EffectivePolicy())
			}
			rows = append(rows, table.Row{
				name,
				cfg.Template.Description,
				repoType,
				strings.Join(cfg.Template.Tags, ", "),
			})
		}

		columns := []table.Column{
			{Title: "Template", Width: 22},
			{Title: "Description", Width: 40},
			{Title: "Type", Width: 22},
			{Title: "Tags", Width: 20},
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

		fmt.Printf("📦 Templates in %s\n", org)
		fmt.Println(t.View())
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <org> <template>",
	Short: "Show one template's metadata and variables",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		org, name := args[0], args[1]
		services := buildServices(cmd.Context())

		cfg, err := services.Templates.Load(cmd.Context(), org, name)
		if err != nil {
			return err
		}

		fmt.Printf("📦 %s\n", cfg.Template.Name)
		if cfg.Template.Description != "" {
			fmt.Printf("   %s\n", cfg.Template.Description)
		}
		if cfg.Template.Author != "" {
			fmt.Printf("   Author: %s\n", cfg.Template.Author)
		}
		if len(cfg.Template.Tags) > 0 {
			fmt.Printf("   Tags: %s\n", strings.Join(cfg.Template.Tags, ", "))
		}
		if cfg.RepositoryType != nil {
			fmt.Printf("   Repository type: %s (%s)\n", cfg.RepositoryType.Type, cfg.RepositoryType.EffectivePolicy())
		}
		if cfg.DefaultVisibility != nil {
			fmt.Printf("   Default visibility: %s\n", *cfg.DefaultVisibility)
		}

		if len(cfg.Variables) > 0 {
			fmt.Printf("\nVariables:\n")
			for varName, v := range cfg.Variables {
				required := ""
				if v.Required {
					required = " (required)"
				}
				fmt.Printf("   %s%s", varName, required)
				if v.Description != "" {
					fmt.Printf(": %s", v.Description)
				}
				fmt.Println()
				if v.Default != "" {
					fmt.Printf("      default: %s\n", v.Default)
				}
				if len(v.Options) > 0 {
					fmt.Printf("      options: %s\n", strings.Join(v.Options, ", "))
				}
			}
		}
		return nil
	},
}

func init() {
	templatesCmd.AddCommand(templateShowCmd)
	RootCmd.AddCommand(templatesCmd)
}
