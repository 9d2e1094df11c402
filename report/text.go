package report

import (
	"fmt"
	"math"
	"os"
	"strings"
)

const bar = "================================================================================"

// Text renders the full human-readable report.
func Text(a *Analysis) string {
	var b strings.Builder

	fmt.Fprintln(&b, bar)
	fmt.Fprintln(&b, "QUEUEING CAPACITY REPORT")
	fmt.Fprintln(&b, bar)
	fmt.Fprintf(&b, "Run:       %s\n", a.RunID)
	fmt.Fprintf(&b, "Generated: %s\n", a.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	if a.Ingest != nil {
		fmt.Fprintf(&b, "Input:     %d events from %d file(s)", a.Ingest.TotalEvents, len(a.Ingest.Files))
		if dropped := a.Ingest.DroppedRows(); dropped > 0 {
			fmt.Fprintf(&b, ", %d row(s) dropped as unparseable", dropped)
		}
		fmt.Fprintln(&b)
	}

	for _, g := range a.Groups {
		writeGroup(&b, g)
	}

	writeSummary(&b, a)
	return b.String()
}

// Write renders the report and writes it to path.
func Write(a *Analysis, path string) error {
	if err := os.WriteFile(path, []byte(Text(a)), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeGroup(b *strings.Builder, g GroupAnalysis) {
	fmt.Fprintf(b, "\n%s\n", bar)
	fmt.Fprintf(b, "ANALYSIS: %s\n", g.Key)
	fmt.Fprintf(b, "%s\n\n", bar)

	s := g.Stats
	fmt.Fprintln(b, "ARRIVAL PATTERN:")
	fmt.Fprintf(b, "  Total Arrivals:          %d\n", s.Count)
	fmt.Fprintf(b, "  Observation Duration:    %.1f s\n", s.ObservationSeconds)
	fmt.Fprintf(b, "  Arrival Rate (λ):        %.2f entities/hour\n", s.ArrivalRatePerHour)
	fmt.Fprintf(b, "  Mean Inter-Arrival:      %.2f s\n", s.MeanInterArrival)
	fmt.Fprintf(b, "  Std Dev Inter-Arrival:   %.2f s\n", s.StdDevInterArrival)
	fmt.Fprintf(b, "  CV Inter-Arrival:        %s\n", s.CVInterArrival)
	fmt.Fprintf(b, "  Variability Class:       %s\n", s.Class)
	if s.HasService {
		fmt.Fprintln(b, "\nSERVICE PATTERN:")
		fmt.Fprintf(b, "  Mean Service Time:       %.2f s\n", s.MeanService)
		fmt.Fprintf(b, "  Std Dev Service Time:    %.2f s\n", s.StdDevService)
		fmt.Fprintf(b, "  CV Service:              %s\n", s.CVService)
	}
	fmt.Fprintf(b, "\n  Service Rate (μ):        %.2f entities/hour/server\n", g.ServiceRate)

	if len(g.Sweep) > 0 {
		fmt.Fprintln(b, "\nSERVER SWEEP:")
		fmt.Fprintf(b, "  %-8s %-8s %-12s %-10s %-12s\n", "Servers", "Util", "Wait (s)", "Queue", "Class")
		fmt.Fprintln(b, "  "+strings.Repeat("-", 54))
		for _, r := range g.Sweep {
			fmt.Fprintf(b, "  %-8d %-8s %-12s %-10s %-12s\n",
				r.Servers, fmtPercent(r.Utilization), fmtSeconds(r.WaitSeconds), fmtCount(r.QueueLength), r.Classification)
		}
	}

	if len(g.Scenarios) > 0 {
		fmt.Fprintln(b, "\nSCENARIOS:")
		fmt.Fprintf(b, "  %-14s %-8s %-5s %-8s %-10s %-8s %-12s %-6s\n",
			"Scenario", "Target", "Cap", "Util", "Wait (s)", "Queue", "Annual £", "Score")
		fmt.Fprintln(b, "  "+strings.Repeat("-", 78))
		for _, sc := range g.Scenarios {
			fmt.Fprintf(b, "  %-14s %-8s %-5d %-8s %-10s %-8s %-12.2f %-6.0f\n",
				sc.Policy, fmtPercent(sc.TargetUtilization), sc.Servers, fmtPercent(sc.Utilization),
				fmtSeconds(sc.WaitSeconds), fmtCount(sc.QueueLength), sc.AnnualCost, sc.PerformanceScore)
		}
	}

	for _, ie := range g.Infeasible {
		fmt.Fprintf(b, "\n  INFEASIBLE: policy %q cannot be met within %d server(s); best utilization %s (target %s)\n",
			ie.Policy, ie.MaxServers, fmtPercent(ie.BestUtilization), fmtPercent(ie.TargetUtilization))
	}

	if g.Recommended != nil {
		r := g.Recommended
		fmt.Fprintln(b, "\nRECOMMENDED:")
		fmt.Fprintf(b, "  Scenario:      %s\n", r.Policy)
		fmt.Fprintf(b, "  Capacity:      %d server(s)\n", r.Servers)
		fmt.Fprintf(b, "  Utilization:   %s\n", fmtPercent(r.Utilization))
		fmt.Fprintf(b, "  Expected Wait: %s s\n", fmtSeconds(r.WaitSeconds))
		fmt.Fprintf(b, "  Annual Cost:   £%.2f\n", r.AnnualCost)
		fmt.Fprintf(b, "  Daily Cost:    £%.2f (infra %.2f, ops %.2f, time value %.2f)\n",
			r.DailyCost.Total, r.DailyCost.Infrastructure, r.DailyCost.Operational, r.DailyCost.TimeValue)
	}
}

func writeSummary(b *strings.Builder, a *Analysis) {
	fmt.Fprintf(b, "\n%s\n", bar)
	fmt.Fprintln(b, "SUMMARY")
	fmt.Fprintln(b, bar)

	infeasibleTotal := 0
	for _, g := range a.Groups {
		infeasibleTotal += len(g.Infeasible)
	}
	if infeasibleTotal > 0 {
		fmt.Fprintf(b, "\n%d scenario(s) were infeasible within the swept server range.\n", infeasibleTotal)
		fmt.Fprintln(b, "Widen the sweep (evaluation.max_servers) or relax the policy targets.")
	}

	for _, g := range a.Groups {
		if g.Recommended == nil {
			fmt.Fprintf(b, "  %-24s no feasible scenario\n", g.Key+":")
			continue
		}
		fmt.Fprintf(b, "  %-24s %d server(s) (%s, %s utilization)\n",
			g.Key+":", g.Recommended.Servers, g.Recommended.Policy, fmtPercent(g.Recommended.Utilization))
	}
}

func fmtSeconds(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.1f", v)
}

func fmtCount(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}

func fmtPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
