package cmd

import (
	"fmt"

	"github.com/manngobeh2006/oneclick-master/ingest"
	"github.com/manngobeh2006/oneclick-master/logger"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Ingest analyzer JSON files into the reference corpus",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cleanup, err := openCorpus()
		if err != nil {
			return fmt.Errorf("failed to open corpus: %w", err)
		}
		defer cleanup()

		analyses, events := openRedis()
		svc := ingest.NewService(repo, analyses, events)

		var stored, skipped, failed int
		for _, path := range args {
			track, ok, err := svc.IngestFile(cmd.Context(), path)
			if err != nil {
				failed++
				logger.Warn("ingest failed",
					logger.String("file", path),
					logger.ErrorField(err))
				fmt.Printf("FAIL %s: %v\n", path, err)
				continue
			}
			if !ok {
				skipped++
				fmt.Printf("SKIP %s: already in corpus\n", path)
				continue
			}
			stored++
			fmt.Printf("OK   %s: genre=%s profile=%s\n", path, track.Genre, track.Profile)
		}

		fmt.Printf("ingested %d, skipped %d duplicates, %d failed\n", stored, skipped, failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
