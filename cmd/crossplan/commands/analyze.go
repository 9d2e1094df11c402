package commands

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"crossplan/config"
	"crossplan/planner"
	"crossplan/queueing"
	"crossplan/report"
	"crossplan/traffic"
	"crossplan/variability"

	"github.com/spf13/cobra"
)

var (
	analyzeOutDir     string
	analyzePolicyFile string
	analyzeByPeriod   bool
)

// AnalyzeCmd runs the full pipeline: ingest, statistics, queueing sweep,
// scenario generation, and report output.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze <file.csv[=Entity]> ...",
	Short: "Run the full capacity analysis over one or more arrival CSVs",
	Long: `Analyze merges the given CSV files into one normalized arrival table,
computes per-entity variability statistics, sweeps candidate server counts
through the queueing formulas, and generates costed capacity scenarios.

Per-type exports without an Entity column take the entity type after "=":

  crossplan analyze eb.csv="EB Vehicles" wb.csv="WB Vehicles" crossers.csv="Crossers"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if analyzeByPeriod {
			cfg.Evaluation.ByPeriod = true
		}

		policies := planner.Policies(cfg.Policies)
		if analyzePolicyFile != "" {
			policies, err = planner.LoadPolicies(analyzePolicyFile)
			if err != nil {
				return err
			}
		}

		fmt.Printf("Loading %d file(s)...\n", len(args))
		events, summary, err := traffic.LoadAndNormalize(parseSources(args))
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %d events", summary.TotalEvents)
		if dropped := summary.DroppedRows(); dropped > 0 {
			fmt.Printf(" (%d row(s) dropped)", dropped)
		}
		fmt.Println()

		analysis, err := runPipeline(cfg, policies, events, summary)
		if err != nil {
			return err
		}

		if err := writeOutputs(cfg, analysis); err != nil {
			return err
		}
		fmt.Print(report.Text(analysis))
		return nil
	},
}

// runPipeline drives stages 2-4 over a normalized table. Each group's
// statistics feed one queueing sweep and one scenario set; infeasible
// policies are carried through as findings rather than aborting the run.
func runPipeline(cfg *config.Config, policies planner.Policies, events []traffic.ArrivalEvent, summary *traffic.IngestSummary) (*report.Analysis, error) {
	var stats map[string]variability.EntityStats
	var err error
	if cfg.Evaluation.ByPeriod {
		stats, err = variability.ComputePeriods(events)
	} else {
		stats, err = variability.Compute(events)
	}
	if err != nil {
		return nil, err
	}

	costs := planner.CostModel{
		CostPerServer:        cfg.Costs.CostPerServer,
		AmortizationYears:    cfg.Costs.AmortizationYears,
		OperationalPerDay:    cfg.Costs.OperationalPerDay,
		TimeValuePerHour:     cfg.Costs.TimeValuePerHour,
		OperatingHoursPerDay: cfg.Costs.OperatingHoursPerDay,
	}

	analysis := report.NewAnalysis(summary)
	for _, key := range variability.SortedKeys(stats) {
		s := stats[key]
		g := report.GroupAnalysis{Key: key, Stats: s, ServiceRate: serviceRateFor(cfg, s)}

		if s.ArrivalRatePerHour <= 0 {
			log.Printf("warning: %s: zero arrival rate (single event or zero-length observation), skipping queueing evaluation", key)
			analysis.Groups = append(analysis.Groups, g)
			continue
		}

		g.Sweep, err = queueing.Sweep(
			s.ArrivalRatePerHour,
			g.ServiceRate,
			s.CVInterArrival.OrDefault(cfg.Evaluation.DefaultCV),
			serviceCV(cfg, s),
			cfg.Evaluation.MaxServers,
		)
		if err != nil {
			return nil, fmt.Errorf("queueing evaluation for %s: %w", key, err)
		}

		g.Scenarios, g.Infeasible, err = planner.GenerateScenarios(g.Sweep, policies, costs)
		if err != nil {
			return nil, fmt.Errorf("scenario generation for %s: %w", key, err)
		}
		g.Recommended = planner.Recommend(g.Scenarios)

		analysis.Groups = append(analysis.Groups, g)
	}
	return analysis, nil
}

func writeOutputs(cfg *config.Config, analysis *report.Analysis) error {
	dir := cfg.Output.Dir
	if analyzeOutDir != "" {
		dir = analyzeOutDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	reportPath := filepath.Join(dir, cfg.Output.ReportFile)
	if err := report.Write(analysis, reportPath); err != nil {
		return err
	}
	tablePath := filepath.Join(dir, cfg.Output.TableFile)
	if err := report.WriteScenarioTable(analysis, tablePath); err != nil {
		return err
	}

	statsMap := make(map[string]variability.EntityStats, len(analysis.Groups))
	for _, g := range analysis.Groups {
		statsMap[g.Key] = g.Stats
	}
	if err := report.ExportVariabilityJSON(statsMap, filepath.Join(dir, "variability_metrics.json")); err != nil {
		return err
	}
	if err := report.ExportQueueingJSON(analysis, filepath.Join(dir, "queueing_results.json")); err != nil {
		return err
	}
	if err := report.ExportScenariosJSON(analysis, filepath.Join(dir, "resource_scenarios.json")); err != nil {
		return err
	}

	fmt.Printf("Report saved to %s\n", reportPath)
	fmt.Printf("Scenario table saved to %s\n", tablePath)
	return nil
}

func init() {
	AnalyzeCmd.Flags().StringVar(&analyzeOutDir, "out", "", "output directory (default from config)")
	AnalyzeCmd.Flags().StringVar(&analyzePolicyFile, "policies", "", "YAML file overriding the scenario policies")
	AnalyzeCmd.Flags().BoolVar(&analyzeByPeriod, "by-period", false, "group by Period_Type session column in addition to entity type")
}
