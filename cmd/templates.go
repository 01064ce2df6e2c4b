package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/manngobeh2006/oneclick-master/core/template"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [genre]",
	Short: "Show genre template coverage, or one derived template",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cleanup, err := openCorpus()
		if err != nil {
			return fmt.Errorf("failed to open corpus: %w", err)
		}
		defer cleanup()

		if len(args) == 1 {
			store := template.NewStore(repo)
			tpl, ok, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to derive template: %w", err)
			}
			if !ok {
				fmt.Printf("no template for %q: fewer than %d corpus samples\n",
					args[0], template.MinSamples)
				return nil
			}
			out, err := json.MarshalIndent(tpl, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		genres, err := repo.ListGenres(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list genres: %w", err)
		}
		if len(genres) == 0 {
			fmt.Println("corpus is empty")
			return nil
		}

		fmt.Printf("%-24s %8s  %s\n", "GENRE", "SAMPLES", "TEMPLATE")
		for _, g := range genres {
			status := "ready"
			if g.SampleCount < template.MinSamples {
				status = fmt.Sprintf("needs %d more", template.MinSamples-g.SampleCount)
			}
			fmt.Printf("%-24s %8d  %s\n", g.Genre, g.SampleCount, status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
