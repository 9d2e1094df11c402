package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"crossplan/queueing"
	"crossplan/variability"
)

// variabilityExport mirrors the variability_metrics JSON layout consumed by
// the simulation workflow.
type variabilityExport struct {
	EntityType         string                  `json:"entity_type"`
	TotalArrivals      int                     `json:"total_arrivals"`
	MeanArrivalRate    float64                 `json:"mean_arrival_rate"`
	MeanInterArrival   float64                 `json:"mean_inter_arrival"`
	StdInterArrival    float64                 `json:"std_inter_arrival"`
	CVInterArrival     variability.Coefficient `json:"cv_inter_arrival"`
	MeanServiceTime    float64                 `json:"mean_service_time"`
	StdServiceTime     float64                 `json:"std_service_time"`
	CVServiceTime      variability.Coefficient `json:"cv_service_time"`
	VariabilityClass   string                  `json:"variability_class"`
	ObservationSeconds float64                 `json:"observation_duration_seconds"`
}

// ExportVariabilityJSON writes per-group variability metrics.
func ExportVariabilityJSON(stats map[string]variability.EntityStats, path string) error {
	out := make(map[string]variabilityExport, len(stats))
	for _, key := range variability.SortedKeys(stats) {
		s := stats[key]
		out[key] = variabilityExport{
			EntityType:         s.EntityType,
			TotalArrivals:      s.Count,
			MeanArrivalRate:    s.ArrivalRatePerHour,
			MeanInterArrival:   s.MeanInterArrival,
			StdInterArrival:    s.StdDevInterArrival,
			CVInterArrival:     s.CVInterArrival,
			MeanServiceTime:    s.MeanService,
			StdServiceTime:     s.StdDevService,
			CVServiceTime:      s.CVService,
			VariabilityClass:   string(s.Class),
			ObservationSeconds: s.ObservationSeconds,
		}
	}
	return writeJSON(out, path)
}

// queueingExport is a JSON-safe view of a sweep result: infinite waits are
// encoded as null, since JSON has no representation for +Inf.
type queueingExport struct {
	Servers        int      `json:"servers"`
	Utilization    float64  `json:"utilization"`
	WaitSeconds    *float64 `json:"avg_wait_queue"`
	QueueLength    *float64 `json:"avg_num_queue"`
	ProbWait       float64  `json:"prob_wait"`
	Classification string   `json:"performance_class"`
}

// ExportQueueingJSON writes the per-group server sweeps.
func ExportQueueingJSON(a *Analysis, path string) error {
	out := make(map[string][]queueingExport, len(a.Groups))
	for _, g := range a.Groups {
		rows := make([]queueingExport, 0, len(g.Sweep))
		for _, r := range g.Sweep {
			rows = append(rows, queueingExport{
				Servers:        r.Servers,
				Utilization:    r.Utilization,
				WaitSeconds:    finiteOrNull(r.WaitSeconds),
				QueueLength:    finiteOrNull(r.QueueLength),
				ProbWait:       r.ProbWait,
				Classification: string(r.Classification),
			})
		}
		out[g.Key] = rows
	}
	return writeJSON(out, path)
}

// scenarioExport marks each policy's outcome; infeasible policies appear
// with feasible=false and the best utilization achieved.
type scenarioExport struct {
	Name              string   `json:"name"`
	TargetUtilization float64  `json:"target_utilization"`
	Feasible          bool     `json:"feasible"`
	Capacity          int      `json:"capacity,omitempty"`
	Utilization       *float64 `json:"utilization,omitempty"`
	WaitSeconds       *float64 `json:"avg_wait,omitempty"`
	QueueLength       *float64 `json:"queue_length,omitempty"`
	AnnualCost        *float64 `json:"annual_cost,omitempty"`
	PerformanceScore  *float64 `json:"performance_score,omitempty"`
	BestUtilization   *float64 `json:"best_utilization,omitempty"`
}

// ExportScenariosJSON writes every generated scenario plus infeasibility
// findings, grouped by entity type.
func ExportScenariosJSON(a *Analysis, path string) error {
	out := make(map[string][]scenarioExport, len(a.Groups))
	for _, g := range a.Groups {
		rows := make([]scenarioExport, 0, len(g.Scenarios)+len(g.Infeasible))
		for _, sc := range g.Scenarios {
			sc := sc
			rows = append(rows, scenarioExport{
				Name:              sc.Policy,
				TargetUtilization: sc.TargetUtilization,
				Feasible:          true,
				Capacity:          sc.Servers,
				Utilization:       &sc.Utilization,
				WaitSeconds:       finiteOrNull(sc.WaitSeconds),
				QueueLength:       finiteOrNull(sc.QueueLength),
				AnnualCost:        &sc.AnnualCost,
				PerformanceScore:  &sc.PerformanceScore,
			})
		}
		for _, ie := range g.Infeasible {
			best := ie.BestUtilization
			rows = append(rows, scenarioExport{
				Name:              ie.Policy,
				TargetUtilization: ie.TargetUtilization,
				Feasible:          false,
				BestUtilization:   &best,
			})
		}
		out[g.Key] = rows
	}
	return writeJSON(out, path)
}

// ErlangCrossCheck reports the Sakasegawa wait next to the exact M/M/c wait
// for one sweep, for validation at CV ≈ 1.
func ErlangCrossCheck(g GroupAnalysis, arrivalRate float64) map[int][2]float64 {
	out := make(map[int][2]float64, len(g.Sweep))
	for _, r := range g.Sweep {
		out[r.Servers] = [2]float64{
			r.WaitSeconds,
			queueing.ErlangCWaitSeconds(arrivalRate, g.ServiceRate, r.Servers),
		}
	}
	return out
}

func finiteOrNull(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
