package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/repoforge/internal/infrastructure/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the metadata directory and keep the template cache fresh",
	Long: `Watch runs against a local metadata directory and invalidates cached
templates whose files change on disk. It blocks until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagGitHub {
			return fmt.Errorf("watch only works with a local metadata directory")
		}
		services := buildServices(cmd.Context())

		watcher, err := watch.NewMetadataWatcher(flagMetadataDir, services.Templates, watchDebounce, nil)
		if err != nil {
			return err
		}

		fmt.Printf("👀 Watching %s (ctrl-c to stop)\n", flagMetadataDir)
		if err := watcher.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period before a change invalidates the cache")
	RootCmd.AddCommand(watchCmd)
}
