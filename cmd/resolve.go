package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/manngobeh2006/oneclick-master/core/graph"
	"github.com/manngobeh2006/oneclick-master/core/mastering"
	"github.com/manngobeh2006/oneclick-master/core/template"
	"github.com/manngobeh2006/oneclick-master/ingest"

	"github.com/spf13/cobra"
)

var (
	resolveAnalysisPath string
	resolveGenre        string
	resolveProfile      string
	resolveFFmpeg       bool
	resolvePreview      bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve mastering parameters and a filter graph for an analyzed track",
	Long: `Reads an analyzer JSON document, resolves the mastering parameter set
through the base profile, genre template and track overlays, compiles the
filter graph and prints the resolution as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		track, err := ingest.LoadAnalysisFile(resolveAnalysisPath)
		if err != nil {
			return err
		}

		genre := resolveGenre
		if genre == "" {
			genre = track.Genre
		}
		profile := resolveProfile
		if profile == "" {
			profile = track.Profile
		}

		repo, cleanup, err := openCorpus()
		if err != nil {
			return fmt.Errorf("failed to open corpus: %w", err)
		}
		defer cleanup()

		store := template.NewStore(repo)
		orchestrator := mastering.NewOrchestrator(mastering.NewCatalog(), store)

		resolution, err := orchestrator.Resolve(cmd.Context(), track.Measurement, genre, profile)
		if err != nil {
			return err
		}

		if resolvePreview {
			resolution.Params = mastering.DerivePreview(resolution.Params)
			resolution.Graph, err = graph.Compile(resolution.Params)
			if err != nil {
				return err
			}
		}

		out, err := json.MarshalIndent(resolution, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		if resolveFFmpeg {
			script, err := graph.EncodeFFmpeg(resolution.Graph)
			if err != nil {
				return err
			}
			fmt.Println(script)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveAnalysisPath, "analysis", "", "path to the analyzer JSON document")
	resolveCmd.Flags().StringVar(&resolveGenre, "genre", "", "genre hint, defaults to the document's genre")
	resolveCmd.Flags().StringVar(&resolveProfile, "profile", "", "profile hint, defaults to the document's profile")
	resolveCmd.Flags().BoolVar(&resolveFFmpeg, "ffmpeg", false, "also print the ffmpeg filtergraph")
	resolveCmd.Flags().BoolVar(&resolvePreview, "preview", false, "derive the gentler preview parameter set")
	resolveCmd.MarkFlagRequired("analysis")
	rootCmd.AddCommand(resolveCmd)
}
