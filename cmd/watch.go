package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/manngobeh2006/oneclick-master/ingest"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the corpus inbox and ingest dropped analyzer files",
	Long: `Watches the configured inbox directory and ingests every analyzer JSON
file dropped into it. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cleanup, err := openCorpus()
		if err != nil {
			return fmt.Errorf("failed to open corpus: %w", err)
		}
		defer cleanup()

		analyses, events := openRedis()
		svc := ingest.NewService(repo, analyses, events)
		watcher := ingest.NewWatcher(svc, cfg.CorpusWatchDir, cfg.IngestWorkers)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("watching %s, ctrl-c to stop\n", cfg.CorpusWatchDir)
		return watcher.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
