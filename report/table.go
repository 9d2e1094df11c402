package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WriteScenarioTable writes the machine-readable scenario table: one row per
// (entity type, scenario name), with infeasible scenarios present and marked
// rather than omitted.
func WriteScenarioTable(a *Analysis, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"entity_type", "scenario", "target_utilization", "recommended_server_count",
		"utilization", "expected_wait_seconds", "expected_queue_length",
		"performance_classification", "annual_cost_estimate", "feasible", "best_utilization",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	for _, g := range a.Groups {
		for _, sc := range g.Scenarios {
			row := []string{
				g.Key,
				sc.Policy,
				formatFloat(sc.TargetUtilization, 2),
				strconv.Itoa(sc.Servers),
				formatFloat(sc.Utilization, 4),
				formatFloat(sc.WaitSeconds, 2),
				formatFloat(sc.QueueLength, 3),
				string(sc.Classification),
				formatFloat(sc.AnnualCost, 2),
				"true",
				"",
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
		for _, ie := range g.Infeasible {
			row := []string{
				g.Key,
				ie.Policy,
				formatFloat(ie.TargetUtilization, 2),
				"", "", "", "", "", "",
				"false",
				formatFloat(ie.BestUtilization, 4),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
