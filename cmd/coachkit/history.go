package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [module]",
	Short: "Show recorded sessions, oldest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		moduleID := ""
		if len(args) == 1 {
			moduleID = args[0]
		}

		sessions := svc.History(moduleID)
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tMODULE\tTRIALS\tDURATION")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				s.StartedAt.Format("2006-01-02 15:04"), s.ModuleID, s.Trials, s.Duration.Round(time.Second))
		}
		return w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <module>",
	Short: "Show aggregate stats for a module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := svc.ModuleStats(args[0])
		fmt.Printf("Module %s: %d sessions, %d trials\n",
			stats.ModuleID, stats.Sessions, stats.TotalTrials)
		fmt.Printf("Current fatigue: %.0f%%\n", svc.Fatigue()*100)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
}
