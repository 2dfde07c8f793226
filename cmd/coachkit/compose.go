package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var composeDuration int

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose a personalized practice session plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := svc.Compose(cmd.Context(), composeDuration)
		if err != nil {
			return err
		}
		fmt.Print(svc.Explain(plan))
		return nil
	},
}

func init() {
	composeCmd.Flags().IntVarP(&composeDuration, "duration", "d", 0,
		"session length in minutes (0 uses the configured default)")
	rootCmd.AddCommand(composeCmd)
}
