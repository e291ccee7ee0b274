// Package cli implements the repoforge command line interface.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/repoforge/internal/infrastructure/wiring"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	flagMetadataDir string
	flagGitHub      bool
	flagToken       string
	flagStrict      bool
	flagVerbose     bool
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:     "repoforge",
	Version: Version,
	Short:   "Provision GitHub repositories from organization templates",
	Long: `Repoforge resolves repository settings through the organization's
configuration hierarchy (global defaults, repository type, team, template),
enforces override policy, and validates the result before provisioning.`,
}

// Execute runs the CLI. Called once from main.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&flagMetadataDir, "metadata-dir", ".", "local metadata directory (one subdirectory per organization)")
	RootCmd.PersistentFlags().BoolVar(&flagGitHub, "github", false, "load metadata from the GitHub API instead of a local directory")
	RootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "GitHub token (defaults to GITHUB_TOKEN)")
	RootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false, "reject the legacy bare scalar form in global defaults")
	RootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

func buildServices(ctx context.Context) *wiring.AppServices {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if flagGitHub {
		return wiring.BuildAppServicesForGitHub(ctx, flagToken, flagStrict, logger)
	}
	return wiring.BuildAppServices(flagMetadataDir, flagStrict, logger)
}
