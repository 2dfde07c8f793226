package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/internal/domain/model"
)

var (
	recordTotal      int
	recordCorrect    int
	recordDifficulty float64
)

var recordCmd = &cobra.Command{
	Use:   "record <module>",
	Short: "Record a completed training session for a module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if recordCorrect > recordTotal {
			return fmt.Errorf("correct count %d exceeds total %d", recordCorrect, recordTotal)
		}

		trials := make([]model.Trial, recordTotal)
		for i := range trials {
			trials[i] = model.Trial{
				Correct:    i < recordCorrect,
				Difficulty: recordDifficulty,
			}
		}

		session, err := svc.RecordSession(cmd.Context(), args[0], trials)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded session %s: %d trials (%d correct) on %s\n",
			session.ID, session.Trials, recordCorrect, session.ModuleID)
		return nil
	},
}

func init() {
	recordCmd.Flags().IntVar(&recordTotal, "total", 10, "number of trials in the session")
	recordCmd.Flags().IntVar(&recordCorrect, "correct", 0, "number of correct trials")
	recordCmd.Flags().Float64Var(&recordDifficulty, "difficulty", model.RatingDefault,
		"trial difficulty on the rating scale")
	rootCmd.AddCommand(recordCmd)
}
