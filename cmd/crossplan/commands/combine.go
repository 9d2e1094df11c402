package commands

import (
	"fmt"

	"crossplan/traffic"

	"github.com/spf13/cobra"
)

var combineOut string

// CombineCmd stacks previously merged session files into one master table.
var CombineCmd = &cobra.Command{
	Use:   "combine <session.csv> ...",
	Short: "Combine merged session files into one master CSV",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, summary, err := traffic.CombineSessions(args, combineOut)
		if err != nil {
			return err
		}

		fmt.Printf("Combined %d events from %d session file(s)\n", len(events), len(summary.Files))

		bySession := make(map[string]int)
		for _, ev := range events {
			bySession[ev.Session.SessionID]++
		}
		for session, n := range bySession {
			fmt.Printf("  Session %s: %d arrivals\n", session, n)
		}
		fmt.Printf("Saved to %s\n", combineOut)
		return nil
	},
}

func init() {
	CombineCmd.Flags().StringVar(&combineOut, "out", "all_sessions_combined.csv", "output file")
}
