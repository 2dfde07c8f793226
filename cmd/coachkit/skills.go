package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/internal/domain/model"
	"github.com/coachkit/coachkit/internal/domain/rating"
)

var (
	skillsWeakest   int
	skillsStrongest int
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Show skill ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		var list []model.Skill
		switch {
		case skillsWeakest > 0:
			list = svc.Weakest(skillsWeakest)
		case skillsStrongest > 0:
			list = svc.Strongest(skillsStrongest)
		default:
			list = svc.Skills()
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SKILL\tRATING\tLEVEL\tTRIALS")
		for _, sk := range list {
			level := rating.LevelFor(sk.Rating)
			fmt.Fprintf(w, "%s\t%.0f\t%s\t%d\n", sk.Name, sk.Rating, level.Label, sk.Trials)
		}
		return w.Flush()
	},
}

func init() {
	skillsCmd.Flags().IntVar(&skillsWeakest, "weakest", 0, "show only the n weakest skills")
	skillsCmd.Flags().IntVar(&skillsStrongest, "strongest", 0, "show only the n strongest skills")
	rootCmd.AddCommand(skillsCmd)
}
