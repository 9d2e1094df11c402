package commands

import (
	"fmt"

	"crossplan/report"
	"crossplan/traffic"
	"crossplan/variability"

	"github.com/spf13/cobra"
)

var (
	statsJSONOut  string
	statsByPeriod bool
)

// StatsCmd computes and prints variability statistics without running the
// queueing stages.
var StatsCmd = &cobra.Command{
	Use:   "stats <file.csv[=Entity]> ...",
	Short: "Compute arrival variability statistics only",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, summary, err := traffic.LoadAndNormalize(parseSources(args))
		if err != nil {
			return err
		}

		var stats map[string]variability.EntityStats
		if statsByPeriod {
			stats, err = variability.ComputePeriods(events)
		} else {
			stats, err = variability.Compute(events)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Analyzed %d events in %d group(s)", summary.TotalEvents, len(stats))
		if dropped := summary.DroppedRows(); dropped > 0 {
			fmt.Printf(" (%d row(s) dropped)", dropped)
		}
		fmt.Println()
		fmt.Println()

		for _, key := range variability.SortedKeys(stats) {
			s := stats[key]
			fmt.Printf("%s:\n", key)
			fmt.Printf("  Arrivals:           %d\n", s.Count)
			fmt.Printf("  Arrival Rate:       %.2f /hour\n", s.ArrivalRatePerHour)
			fmt.Printf("  Mean Inter-Arrival: %.2f s\n", s.MeanInterArrival)
			fmt.Printf("  CV Inter-Arrival:   %s\n", s.CVInterArrival)
			fmt.Printf("  Variability:        %s\n", s.Class)
			if s.HasService {
				fmt.Printf("  Mean Service Time:  %.2f s (CV %s)\n", s.MeanService, s.CVService)
			}
			fmt.Println()
		}

		if statsJSONOut != "" {
			if err := report.ExportVariabilityJSON(stats, statsJSONOut); err != nil {
				return err
			}
			fmt.Printf("Metrics exported to %s\n", statsJSONOut)
		}
		return nil
	},
}

func init() {
	StatsCmd.Flags().StringVar(&statsJSONOut, "json", "", "export metrics to a JSON file")
	StatsCmd.Flags().BoolVar(&statsByPeriod, "by-period", false, "group by Period_Type session column in addition to entity type")
}
