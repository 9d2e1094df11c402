package commands

import (
	"fmt"

	"crossplan/traffic"

	"github.com/spf13/cobra"
)

var (
	mergeSessionID string
	mergePeriod    string
	mergeDay       string
	mergeOut       string
)

// MergeCmd merges the per-type annotation exports from one observation
// window into a single session file with metadata columns.
var MergeCmd = &cobra.Command{
	Use:   "merge <file.csv[=Entity]> ...",
	Short: "Merge per-type CSVs from one observation window into a session file",
	Long: `Merge concatenates per-type annotation exports, sorts them by time,
recomputes inter-arrival times per entity type, renumbers IDs, and tags every
row with the session metadata:

  crossplan merge --session 01 --period "Morning Peak" --day Monday \
      wb.csv="WB Vehicles" eb.csv="EB Vehicles" crossers.csv="Crossers" posers.csv="Posers"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := mergeOut
		if out == "" {
			out = fmt.Sprintf("session_%s_combined.csv", mergeSessionID)
		}

		meta := traffic.SessionMeta{
			SessionID:  mergeSessionID,
			PeriodType: mergePeriod,
			DayOfWeek:  mergeDay,
		}

		events, summary, err := traffic.MergeSessions(parseSources(args), meta, out)
		if err != nil {
			return err
		}

		fmt.Printf("Merged %d events from %d file(s)", len(events), len(summary.Files))
		if dropped := summary.DroppedRows(); dropped > 0 {
			fmt.Printf(" (%d row(s) dropped)", dropped)
		}
		fmt.Println()
		fmt.Printf("Session %s (%s - %s) saved to %s\n", mergeSessionID, mergePeriod, mergeDay, out)

		byEntity := make(map[string]int)
		for _, ev := range events {
			byEntity[ev.EntityType]++
		}
		for entity, n := range byEntity {
			fmt.Printf("  %s: %d\n", entity, n)
		}
		return nil
	},
}

func init() {
	MergeCmd.Flags().StringVar(&mergeSessionID, "session", "01", "session identifier")
	MergeCmd.Flags().StringVar(&mergePeriod, "period", "", "period type (e.g. \"Morning Peak\", \"Weekend\")")
	MergeCmd.Flags().StringVar(&mergeDay, "day", "", "day of week")
	MergeCmd.Flags().StringVar(&mergeOut, "out", "", "output file (default session_<id>_combined.csv)")
}
