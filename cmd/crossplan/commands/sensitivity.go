package commands

import (
	"fmt"

	"crossplan/sensitivity"
	"crossplan/traffic"
	"crossplan/variability"

	"github.com/spf13/cobra"
)

var sensitivityExpansionPoint float64

// SensitivityCmd expands the wait-time curve in Taylor series around a chosen
// utilization and shows where the polynomial approximations break down.
var SensitivityCmd = &cobra.Command{
	Use:   "sensitivity <file.csv[=Entity]> ...",
	Short: "Taylor-series sensitivity of wait time to utilization shifts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		point := cfg.Evaluation.ExpansionPoint
		if cmd.Flags().Changed("expansion-point") {
			point = sensitivityExpansionPoint
		}
		if point <= 0 || point >= 1 {
			return fmt.Errorf("expansion point %g must be in (0, 1)", point)
		}

		events, _, err := traffic.LoadAndNormalize(parseSources(args))
		if err != nil {
			return err
		}
		stats, err := variability.Compute(events)
		if err != nil {
			return err
		}

		for _, key := range variability.SortedKeys(stats) {
			s := stats[key]
			a := sensitivity.Analyze(s, serviceRateFor(cfg, s), point, cfg.Evaluation.DefaultCV)

			fmt.Printf("%s (expansion at ρ=%.2f):\n", key, a.ExpansionPoint)
			fmt.Printf("  Wait at point:   %.2f s\n", a.WaitAtPoint)
			fmt.Printf("  dW/dρ:           %.2f s per unit utilization\n", a.DWaitDRho)
			fmt.Printf("  dW/dCVa:         %.2f s per unit arrival CV\n", a.DWaitDCV)
			fmt.Printf("  dW/dμ:           %.4f s per (entity/hour/server)\n", a.DWaitDMu)
			fmt.Println()

			fmt.Printf("  %-6s %-10s %-10s %-10s %s\n", "ρ", "Exact", "Order 1", "Order 2", "Order 3")
			for _, sm := range a.Samples {
				fmt.Printf("  %-6.2f %-10s %-10s %-10s %s\n",
					sm.Rho,
					fmtSweepSeconds(sm.Exact),
					fmtSweepSeconds(sm.Order1),
					fmtSweepSeconds(sm.Order2),
					fmtSweepSeconds(sm.Order3))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	SensitivityCmd.Flags().Float64Var(&sensitivityExpansionPoint, "expansion-point", 0.5, "utilization to expand around")
}
