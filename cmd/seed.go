package cmd

import (
	"fmt"
	"time"

	"github.com/manngobeh2006/oneclick-master/core/mastering"
	"github.com/manngobeh2006/oneclick-master/core/template"
	"github.com/manngobeh2006/oneclick-master/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the corpus with bootstrap reference measurements",
	Long: `Seeds five core genres with enough reference measurements to cross the
template threshold, so genre-aware resolution works before any real
analyzer output has been ingested.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cleanup, err := openCorpus()
		if err != nil {
			return fmt.Errorf("failed to open corpus: %w", err)
		}
		defer cleanup()

		count, err := repo.Count(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count corpus: %w", err)
		}
		if count > 0 && !seedForce {
			fmt.Printf("corpus already holds %d tracks, use --force to seed anyway\n", count)
			return nil
		}

		_, events := openRedis()

		tracks := bootstrapTracks()
		for i := range tracks {
			if err := repo.Store(cmd.Context(), &tracks[i]); err != nil {
				return fmt.Errorf("failed to store seed track %s: %w", tracks[i].FileName, err)
			}
		}

		genres := make(map[string]int)
		for _, track := range tracks {
			genres[track.Genre]++
		}
		for genre := range genres {
			if err := events.PublishGenreChanged(cmd.Context(), genre); err != nil {
				return fmt.Errorf("failed to publish corpus change: %w", err)
			}
		}

		fmt.Printf("seeded %d reference tracks across %d genres (threshold %d)\n",
			len(tracks), len(genres), template.MinSamples)
		return nil
	},
}

// seedGenreSpec is the center of a genre's bootstrap cluster. Individual
// samples fan out around it so derived templates have realistic spread.
type seedGenreSpec struct {
	genre   string
	profile string

	lufs     float64
	dynRange float64
	bass     float64
	high     float64
	width    float64
	tempoBPM float64
	centroid float64
}

func bootstrapTracks() []model.ReferenceTrack {
	specs := []seedGenreSpec{
		{genre: "hiphop", profile: mastering.ProfileBassHeavyModern,
			lufs: -11.5, dynRange: 6.5, bass: 0.42, high: 0.28, width: 0.95, tempoBPM: 90, centroid: 1800},
		{genre: "pop", profile: mastering.ProfileModernPop,
			lufs: -10.0, dynRange: 7.5, bass: 0.33, high: 0.35, width: 1.05, tempoBPM: 120, centroid: 2200},
		{genre: "electronic", profile: mastering.ProfileModernPop,
			lufs: -9.5, dynRange: 5.5, bass: 0.40, high: 0.38, width: 1.10, tempoBPM: 126, centroid: 2500},
		{genre: "rnb", profile: mastering.ProfileSmoothVocalFocus,
			lufs: -10.5, dynRange: 8.5, bass: 0.38, high: 0.30, width: 1.00, tempoBPM: 75, centroid: 1900},
		{genre: "trap", profile: mastering.ProfileBassHeavyModern,
			lufs: -11.0, dynRange: 5.0, bass: 0.48, high: 0.26, width: 0.90, tempoBPM: 140, centroid: 2000},
	}

	now := time.Now().UTC()
	tracks := make([]model.ReferenceTrack, 0, len(specs)*template.MinSamples)
	for _, spec := range specs {
		for i := 0; i < template.MinSamples; i++ {
			// spread: -2..+2 steps around the cluster center
			step := float64(i - template.MinSamples/2)
			tracks = append(tracks, model.ReferenceTrack{
				ID:       uuid.NewString(),
				FileName: fmt.Sprintf("bootstrap_%s_%02d.json", spec.genre, i+1),
				FileHash: fmt.Sprintf("bootstrap:%s:%02d", spec.genre, i+1),
				Genre:    spec.genre,
				Profile:  spec.profile,
				Measurement: model.TrackMeasurement{
					IntegratedLUFS:     spec.lufs + step*0.4,
					LoudnessRangeLU:    8 + step*0.5,
					DynamicRangeDB:     spec.dynRange + step*0.5,
					SubBassEnergy:      spec.bass * 0.35,
					BassEnergy:         spec.bass * 0.65,
					LowMidEnergy:       0.18,
					MidEnergy:          0.20,
					HighMidEnergy:      0.12,
					PresenceEnergy:     spec.high * 0.6,
					AirEnergy:          spec.high * 0.4,
					SpectralCentroidHz: spec.centroid + step*60,
					BassEmphasis:       spec.bass + step*0.01,
					HighEmphasis:       spec.high + step*0.01,
					StereoWidth:        spec.width + step*0.02,
					StereoCorrelation:  0.62 + step*0.03,
					EstimatedTempoBPM:  spec.tempoBPM + step*2,
				},
				CreatedAt: now,
			})
		}
	}
	return tracks
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "seed even when the corpus is not empty")
	rootCmd.AddCommand(seedCmd)
}
