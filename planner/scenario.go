package planner

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"crossplan/queueing"
)

// CostModel holds the externally supplied cost constants. AnnualCost on a
// scenario is the literal multiply servers × CostPerServer; amortization and
// the softer daily figures live in the breakdown only.
type CostModel struct {
	CostPerServer        float64 `yaml:"cost_per_server"`
	AmortizationYears    float64 `yaml:"amortization_years"`
	OperationalPerDay    float64 `yaml:"operational_per_server_per_day"`
	TimeValuePerHour     float64 `yaml:"time_value_per_hour"`
	OperatingHoursPerDay float64 `yaml:"operating_hours_per_day"`
}

// DefaultCostModel mirrors the dissertation's cost assumptions (GBP).
func DefaultCostModel() CostModel {
	return CostModel{
		CostPerServer:        10000,
		AmortizationYears:    10,
		OperationalPerDay:    5,
		TimeValuePerHour:     15,
		OperatingHoursPerDay: 8,
	}
}

// CostBreakdown is the supplementary daily cost estimate for a scenario.
type CostBreakdown struct {
	Infrastructure float64 `json:"infrastructure"`
	Operational    float64 `json:"operational"`
	TimeValue      float64 `json:"time_value"`
	Total          float64 `json:"total"`
}

// Scenario is one named capacity recommendation for an entity type.
type Scenario struct {
	Policy            string                  `json:"name"`
	TargetUtilization float64                 `json:"target_utilization"`
	Servers           int                     `json:"capacity"`
	Utilization       float64                 `json:"utilization"`
	WaitSeconds       float64                 `json:"avg_wait"`
	QueueLength       float64                 `json:"queue_length"`
	Classification    queueing.Classification `json:"performance_class"`
	AnnualCost        float64                 `json:"annual_cost"`
	DailyCost         CostBreakdown           `json:"daily_cost"`
	PerformanceScore  float64                 `json:"performance_score"`
}

// InfeasibleScenarioError means no server count in the swept range met a
// policy's utilization target. It names the policy and the best utilization
// achieved so the operator can widen the sweep or relax the policy. It never
// masquerades as a recommendation.
type InfeasibleScenarioError struct {
	Policy            string
	TargetUtilization float64
	BestUtilization   float64
	MaxServers        int
}

func (e *InfeasibleScenarioError) Error() string {
	return fmt.Sprintf("policy %q infeasible within %d server(s): best utilization %.2f exceeds target %.2f",
		e.Policy, e.MaxServers, e.BestUtilization, e.TargetUtilization)
}

// SelectServers scans an ascending-server sweep for the first entry meeting
// the target utilization (and strictly stable). Ties break toward fewer
// servers by construction of the scan order.
func SelectServers(sweep []queueing.Result, policy string, targetUtilization float64) (queueing.Result, error) {
	if len(sweep) == 0 {
		return queueing.Result{}, fmt.Errorf("empty server sweep for policy %q", policy)
	}
	best := math.Inf(1)
	for _, r := range sweep {
		if r.Utilization < best {
			best = r.Utilization
		}
		if r.Utilization <= targetUtilization && r.Utilization < 1.0 {
			return r, nil
		}
	}
	return queueing.Result{}, &InfeasibleScenarioError{
		Policy:            policy,
		TargetUtilization: targetUtilization,
		BestUtilization:   best,
		MaxServers:        sweep[len(sweep)-1].Servers,
	}
}

// GenerateScenarios builds one scenario per policy from a pre-computed
// sweep. Infeasible policies are returned separately rather than silently
// mapped to the last sweep entry; the run carries on with the feasible ones.
func GenerateScenarios(sweep []queueing.Result, policies Policies, costs CostModel) ([]Scenario, []*InfeasibleScenarioError, error) {
	if len(sweep) == 0 {
		return nil, nil, fmt.Errorf("empty server sweep")
	}
	if len(policies) == 0 {
		return nil, nil, fmt.Errorf("no policies supplied")
	}

	var scenarios []Scenario
	var infeasible []*InfeasibleScenarioError
	for _, name := range policies.SortedNames() {
		target := policies[name]
		r, err := SelectServers(sweep, name, target)
		if err != nil {
			var ie *InfeasibleScenarioError
			if errors.As(err, &ie) {
				infeasible = append(infeasible, ie)
				continue
			}
			return nil, nil, err
		}
		scenarios = append(scenarios, buildScenario(name, target, r, costs))
	}
	return scenarios, infeasible, nil
}

func buildScenario(name string, target float64, r queueing.Result, costs CostModel) Scenario {
	s := Scenario{
		Policy:            name,
		TargetUtilization: target,
		Servers:           r.Servers,
		Utilization:       r.Utilization,
		WaitSeconds:       r.WaitSeconds,
		QueueLength:       r.QueueLength,
		Classification:    r.Classification,
		AnnualCost:        float64(r.Servers) * costs.CostPerServer,
		PerformanceScore:  performanceScore(r),
	}
	s.DailyCost = costs.dailyBreakdown(r)
	return s
}

func (m CostModel) dailyBreakdown(r queueing.Result) CostBreakdown {
	b := CostBreakdown{}
	if m.AmortizationYears > 0 {
		b.Infrastructure = m.CostPerServer * float64(r.Servers) / (m.AmortizationYears * 365)
	}
	b.Operational = float64(r.Servers) * m.OperationalPerDay
	if !math.IsInf(r.QueueLength, 1) {
		// QueueLength is the average number waiting, so queue-hours per
		// operating day is QueueLength × hours.
		b.TimeValue = r.QueueLength * m.OperatingHoursPerDay * m.TimeValuePerHour
	}
	b.Total = b.Infrastructure + b.Operational + b.TimeValue
	return b
}

// performanceScore is the 0–100 ranking used to pick the recommended
// scenario: half wait time, half closeness of utilization to the 70% sweet
// spot. Unstable configurations score zero.
func performanceScore(r queueing.Result) float64 {
	if !r.Stable() {
		return 0
	}
	waitScore := 100 - r.WaitSeconds
	if waitScore < 0 {
		waitScore = 0
	}
	utilScore := 100 * (1 - math.Abs(r.Utilization-0.70)/0.70)
	if utilScore < 0 {
		utilScore = 0
	}
	return (waitScore + utilScore) / 2
}

// Recommend picks the highest-scoring scenario, breaking ties toward fewer
// servers. Returns nil when every policy was infeasible.
func Recommend(scenarios []Scenario) *Scenario {
	if len(scenarios) == 0 {
		return nil
	}
	ranked := make([]Scenario, len(scenarios))
	copy(ranked, scenarios)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PerformanceScore != ranked[j].PerformanceScore {
			return ranked[i].PerformanceScore > ranked[j].PerformanceScore
		}
		return ranked[i].Servers < ranked[j].Servers
	})
	best := ranked[0]
	return &best
}
