package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetHistory bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all skill ratings to the default",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.ResetSkills(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("All skills reset to the default rating.")

		if resetHistory {
			if err := svc.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Session history cleared.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetHistory, "history", false, "also clear the session history")
	rootCmd.AddCommand(resetCmd)
}
