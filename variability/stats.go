// Package variability computes descriptive and variability statistics over a
// normalized arrival table: per-entity arrival rates, inter-arrival and
// service-time moments, and the coefficient of variation that drives the
// queueing formulas downstream.
package variability

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sort"

	"crossplan/traffic"

	psg "github.com/petenewcomb/psg-go"
	"gonum.org/v1/gonum/stat"
)

// Coefficient is a coefficient of variation with an explicit undefined
// state. A group with a single event, or a degenerate zero mean, yields
// Defined == false; NaN never leaves this package.
type Coefficient struct {
	Value   float64
	Defined bool
}

// OrDefault substitutes a configured variability assumption (typically 1.0,
// Poisson-like) when the coefficient could not be computed from the data.
func (c Coefficient) OrDefault(def float64) float64 {
	if c.Defined {
		return c.Value
	}
	return def
}

func (c Coefficient) String() string {
	if !c.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.3f", c.Value)
}

// MarshalJSON renders an undefined coefficient as the string "undefined"
// so that exports never contain NaN or a misleading zero.
func (c Coefficient) MarshalJSON() ([]byte, error) {
	if !c.Defined {
		return []byte(`"undefined"`), nil
	}
	return json.Marshal(c.Value)
}

// EntityStats holds the derived statistics for one entity type. It is
// recomputed fully on every analysis run and never mutated incrementally.
type EntityStats struct {
	EntityType         string
	Count              int
	ObservationSeconds float64
	ArrivalRatePerHour float64

	MeanInterArrival   float64
	StdDevInterArrival float64
	CVInterArrival     Coefficient

	HasService    bool
	ServiceCount  int
	MeanService   float64
	StdDevService float64
	CVService     Coefficient

	Class Class
}

// Compute groups events by entity type and derives EntityStats for each
// group. The observation duration is shared across all types (max minus min
// timestamp over the whole table), so rates stay comparable between types.
//
// Each group is fully independent of every other, so groups are computed
// fork-join on a scatter-gather pool. Results are deterministic regardless
// of scheduling.
func Compute(events []traffic.ArrivalEvent) (map[string]EntityStats, error) {
	if len(events) == 0 {
		return map[string]EntityStats{}, nil
	}

	duration := observationDuration(events)

	groups := make(map[string][]traffic.ArrivalEvent)
	for _, ev := range events {
		groups[ev.EntityType] = append(groups[ev.EntityType], ev)
	}

	ctx := context.Background()
	pool := psg.NewPool(runtime.GOMAXPROCS(0))
	job := psg.NewJob(ctx, pool)
	defer job.CancelAndWait()

	results := make(map[string]EntityStats, len(groups))
	gather := func(ctx context.Context, s EntityStats, err error) error {
		if err != nil {
			return err
		}
		results[s.EntityType] = s
		return nil
	}

	for entityType, group := range groups {
		entityType, group := entityType, group
		if err := psg.Scatter(ctx, pool, func(context.Context) (EntityStats, error) {
			return computeGroup(entityType, group, duration), nil
		}, gather); err != nil {
			return nil, err
		}
	}

	if err := job.CloseAndGatherAll(ctx); err != nil {
		return nil, err
	}
	return results, nil
}

// ComputePeriods refines the grouping by the Period_Type session column when
// present, keyed "<period>_<entity>". Events without a period fall under
// "All". Each period uses its own observation duration, since the windows
// are disjoint recordings.
func ComputePeriods(events []traffic.ArrivalEvent) (map[string]EntityStats, error) {
	periods := make(map[string][]traffic.ArrivalEvent)
	for _, ev := range events {
		p := ev.Session.PeriodType
		if p == "" {
			p = "All"
		}
		periods[p] = append(periods[p], ev)
	}

	results := make(map[string]EntityStats)
	for period, subset := range periods {
		byEntity, err := Compute(subset)
		if err != nil {
			return nil, err
		}
		for entityType, s := range byEntity {
			results[period+"_"+entityType] = s
		}
	}
	return results, nil
}

// SortedKeys returns the group keys in deterministic report order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func observationDuration(events []traffic.ArrivalEvent) float64 {
	min, max := events[0].Timestamp, events[0].Timestamp
	for _, ev := range events[1:] {
		if ev.Timestamp < min {
			min = ev.Timestamp
		}
		if ev.Timestamp > max {
			max = ev.Timestamp
		}
	}
	return max - min
}

func computeGroup(entityType string, group []traffic.ArrivalEvent, duration float64) EntityStats {
	s := EntityStats{
		EntityType:         entityType,
		Count:              len(group),
		ObservationSeconds: duration,
	}
	if duration > 0 {
		s.ArrivalRatePerHour = float64(len(group)) / (duration / 3600)
	}

	// The first inter-arrival of each type is a structural zero, not an
	// observation, so it is excluded from the moments.
	interArrivals := make([]float64, 0, len(group))
	first := true
	for _, ev := range sortedByTime(group) {
		if first {
			first = false
			continue
		}
		interArrivals = append(interArrivals, ev.InterArrival)
	}
	s.MeanInterArrival, s.StdDevInterArrival, s.CVInterArrival = moments(interArrivals)
	s.Class = Classify(s.CVInterArrival)

	var services []float64
	for _, ev := range group {
		if ev.Service.Valid {
			services = append(services, ev.Service.Seconds)
		}
	}
	if len(services) > 0 {
		s.HasService = true
		s.ServiceCount = len(services)
		s.MeanService, s.StdDevService, s.CVService = moments(services)
	}
	return s
}

// moments returns mean, sample standard deviation (N−1, matching the
// spreadsheet convention of the source data), and the CV. With fewer than
// two samples, or a zero mean, the CV is undefined rather than NaN.
func moments(samples []float64) (mean, stddev float64, cv Coefficient) {
	if len(samples) == 0 {
		return 0, 0, Coefficient{}
	}
	mean = stat.Mean(samples, nil)
	if len(samples) < 2 {
		return mean, 0, Coefficient{}
	}
	stddev = stat.StdDev(samples, nil)
	if mean <= 0 {
		return mean, stddev, Coefficient{}
	}
	return mean, stddev, Coefficient{Value: stddev / mean, Defined: true}
}

func sortedByTime(group []traffic.ArrivalEvent) []traffic.ArrivalEvent {
	out := make([]traffic.ArrivalEvent, len(group))
	copy(out, group)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}
