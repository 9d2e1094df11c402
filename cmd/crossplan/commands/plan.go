package commands

import (
	"fmt"

	"crossplan/planner"
	"crossplan/queueing"

	"github.com/spf13/cobra"
)

var (
	planArrivalRate float64
	planServiceRate float64
	planCVArrival   float64
	planCVService   float64
	planMaxServers  int
	planTargetWait  float64
)

// PlanCmd is the calculator mode: evaluate explicit rates without any CSV
// input. Useful for what-if questions and for checking a proposed capacity
// against a demand forecast.
var PlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Evaluate explicit arrival/service rates without CSV input",
	Long: `Plan sweeps candidate server counts for explicitly supplied rates:

  crossplan plan --arrival-rate 340 --service-rate 60 --cv-arrival 1.2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sweep, err := queueing.Sweep(planArrivalRate, planServiceRate, planCVArrival, planCVService, planMaxServers)
		if err != nil {
			return err
		}

		fmt.Printf("Demand %.1f/hour, service %.1f/hour/server (CVa=%.2f, CVs=%.2f)\n\n",
			planArrivalRate, planServiceRate, planCVArrival, planCVService)

		fmt.Printf("%-8s %-12s %-14s %-12s %s\n", "Servers", "Utilization", "Wait (s)", "Queue Len", "Class")
		for _, r := range sweep {
			fmt.Printf("%-8d %-12s %-14s %-12s %s\n",
				r.Servers,
				fmt.Sprintf("%.1f%%", r.Utilization*100),
				fmtSweepSeconds(r.WaitSeconds),
				fmtSweepSeconds(r.QueueLength),
				r.Classification)
		}
		fmt.Println()

		minServers := queueing.MinServers(planArrivalRate, planServiceRate, 0.85)
		optServers := queueing.OptimalServers(planArrivalRate, planServiceRate, planCVArrival, planTargetWait)
		fmt.Printf("Minimum servers (85%% utilization cap): %d\n", minServers)
		fmt.Printf("Optimal servers (wait <= %.0fs):        %d\n", planTargetWait, optServers)
		fmt.Println()

		scenarios, infeasible, err := planner.GenerateScenarios(sweep, planner.DefaultPolicies(), planner.DefaultCostModel())
		if err != nil {
			return err
		}
		for _, s := range scenarios {
			fmt.Printf("%-14s target %.0f%%: %d server(s), %.1f%% utilization, wait %s, GBP %.0f/year\n",
				s.Policy, s.TargetUtilization*100, s.Servers, s.Utilization*100,
				fmtSweepSeconds(s.WaitSeconds), s.AnnualCost)
		}
		for _, ie := range infeasible {
			fmt.Printf("%-14s target %.0f%%: infeasible within %d server(s) (best %.1f%%)\n",
				ie.Policy, ie.TargetUtilization*100, ie.MaxServers, ie.BestUtilization*100)
		}
		if rec := planner.Recommend(scenarios); rec != nil {
			fmt.Printf("\nRecommended: %s (%d server(s), score %.1f)\n", rec.Policy, rec.Servers, rec.PerformanceScore)
		}
		return nil
	},
}

func init() {
	PlanCmd.Flags().Float64Var(&planArrivalRate, "arrival-rate", 0, "arrival rate λ (entities/hour)")
	PlanCmd.Flags().Float64Var(&planServiceRate, "service-rate", 60, "service rate μ (entities/hour/server)")
	PlanCmd.Flags().Float64Var(&planCVArrival, "cv-arrival", 1.0, "coefficient of variation of inter-arrival times")
	PlanCmd.Flags().Float64Var(&planCVService, "cv-service", 1.0, "coefficient of variation of service times")
	PlanCmd.Flags().IntVar(&planMaxServers, "max-servers", 10, "largest server count to sweep")
	PlanCmd.Flags().Float64Var(&planTargetWait, "target-wait", 60, "target wait in seconds for the optimal-server search")
	PlanCmd.MarkFlagRequired("arrival-rate")
}
