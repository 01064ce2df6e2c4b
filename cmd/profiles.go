package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/manngobeh2006/oneclick-master/core/mastering"

	"github.com/spf13/cobra"
)

var profilesJSON bool

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the base mastering profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := mastering.NewCatalog()

		if profilesJSON {
			out := make(map[string]interface{}, 6)
			for _, label := range catalog.Labels() {
				p, _ := catalog.Get(label)
				out[label] = p
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("%-24s %8s %7s %9s  %s\n", "PROFILE", "TARGET", "WIDTH", "CEILING", "CHARACTER")
		for _, label := range catalog.Labels() {
			p, _ := catalog.Get(label)
			character := "standard"
			switch {
			case p.PreserveDynamics && p.GentleProcessing:
				character = "gentle, preserving"
			case p.PreserveDynamics:
				character = "preserving"
			case p.GentleProcessing:
				character = "gentle"
			}
			marker := " "
			if label == mastering.DefaultProfile {
				marker = "*"
			}
			fmt.Printf("%-24s %8.1f %7.2f %9.1f  %s%s\n",
				label, p.TargetLUFS, p.StereoWidth, p.LimiterCeilingDB, character, marker)
		}
		fmt.Println("* default profile")
		return nil
	},
}

func init() {
	profilesCmd.Flags().BoolVar(&profilesJSON, "json", false, "print full parameter sets as JSON")
	rootCmd.AddCommand(profilesCmd)
}
