package report

import (
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"crossplan/planner"
	"crossplan/queueing"
	"crossplan/traffic"
	"crossplan/variability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnalysis(t *testing.T) *Analysis {
	t.Helper()

	sweep, err := queueing.Sweep(340, 60, 1.2, 0, 8)
	require.NoError(t, err)

	scenarios, infeasible, err := planner.GenerateScenarios(sweep, planner.DefaultPolicies(), planner.DefaultCostModel())
	require.NoError(t, err)

	a := NewAnalysis(&traffic.IngestSummary{
		TotalEvents: 340,
		Files:       []traffic.FileSummary{{Path: "eb.csv", RowsRead: 342, RowsKept: 340, RowsDropped: 2}},
	})
	a.Groups = []GroupAnalysis{{
		Key: "EB Vehicles",
		Stats: variability.EntityStats{
			EntityType:         "EB Vehicles",
			Count:              340,
			ObservationSeconds: 3600,
			ArrivalRatePerHour: 340,
			MeanInterArrival:   10.6,
			CVInterArrival:     variability.Coefficient{Value: 1.2, Defined: true},
			Class:              variability.ClassMedium,
		},
		ServiceRate: 60,
		Sweep:       sweep,
		Scenarios:   scenarios,
		Infeasible:  infeasible,
		Recommended: planner.Recommend(scenarios),
	}}
	return a
}

func TestTextReportSections(t *testing.T) {
	a := sampleAnalysis(t)
	out := Text(a)

	assert.Contains(t, out, "QUEUEING CAPACITY REPORT")
	assert.Contains(t, out, a.RunID)
	assert.Contains(t, out, "2 row(s) dropped as unparseable")
	assert.Contains(t, out, "ANALYSIS: EB Vehicles")
	assert.Contains(t, out, "ARRIVAL PATTERN:")
	assert.Contains(t, out, "SERVER SWEEP:")
	assert.Contains(t, out, "SCENARIOS:")
	assert.Contains(t, out, "RECOMMENDED:")
	assert.Contains(t, out, "SUMMARY")
	// Saturated sweep entries print as inf, never as a number.
	assert.Contains(t, out, "inf")
	// No measured service times, so the section is absent.
	assert.NotContains(t, out, "SERVICE PATTERN:")
}

func TestTextReportMarksInfeasiblePolicies(t *testing.T) {
	a := sampleAnalysis(t)
	a.Groups[0].Scenarios = nil
	a.Groups[0].Recommended = nil
	a.Groups[0].Infeasible = []*planner.InfeasibleScenarioError{{
		Policy:            "safe",
		TargetUtilization: 0.65,
		BestUtilization:   0.80,
		MaxServers:        3,
	}}

	out := Text(a)
	assert.Contains(t, out, `INFEASIBLE: policy "safe"`)
	assert.Contains(t, out, "no feasible scenario")
	assert.Contains(t, out, "Widen the sweep")
}

func TestWriteReportFile(t *testing.T) {
	a := sampleAnalysis(t)
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, Write(a, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Text(a), string(data))
}

func TestWriteScenarioTable(t *testing.T) {
	a := sampleAnalysis(t)
	a.Groups[0].Infeasible = append(a.Groups[0].Infeasible, &planner.InfeasibleScenarioError{
		Policy:            "safe",
		TargetUtilization: 0.65,
		BestUtilization:   0.708,
		MaxServers:        8,
	})

	path := filepath.Join(t.TempDir(), "scenarios.csv")
	require.NoError(t, WriteScenarioTable(a, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.NotEmpty(t, rows)
	assert.Equal(t, "entity_type", rows[0][0])
	assert.Len(t, rows, 1+len(a.Groups[0].Scenarios)+len(a.Groups[0].Infeasible))

	last := rows[len(rows)-1]
	assert.Equal(t, "safe", last[1])
	assert.Equal(t, "false", last[9])
	assert.Equal(t, "0.7080", last[10])
}

func TestExportQueueingJSONEncodesInfAsNull(t *testing.T) {
	a := sampleAnalysis(t)
	path := filepath.Join(t.TempDir(), "queueing.json")
	require.NoError(t, ExportQueueingJSON(a, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	rows := out["EB Vehicles"]
	require.Len(t, rows, 8)

	// 340/hour through 5 servers at 60/hour is saturated: wait is null.
	assert.Nil(t, rows[4]["avg_wait_queue"])
	assert.Equal(t, "unstable", rows[4]["performance_class"])
	// 6 servers is stable: wait is a number.
	assert.NotNil(t, rows[5]["avg_wait_queue"])
}

func TestExportVariabilityJSON(t *testing.T) {
	stats := map[string]variability.EntityStats{
		"Posers": {
			EntityType:         "Posers",
			Count:              1,
			ObservationSeconds: 600,
			CVInterArrival:     variability.Coefficient{},
			Class:              variability.ClassInsufficient,
		},
	}

	path := filepath.Join(t.TempDir(), "variability.json")
	require.NoError(t, ExportVariabilityJSON(stats, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "undefined", out["Posers"]["cv_inter_arrival"])
	assert.Equal(t, "Insufficient data", out["Posers"]["variability_class"])
}

func TestExportScenariosJSON(t *testing.T) {
	a := sampleAnalysis(t)
	a.Groups[0].Infeasible = append(a.Groups[0].Infeasible, &planner.InfeasibleScenarioError{
		Policy:            "safe",
		TargetUtilization: 0.65,
		BestUtilization:   0.708,
		MaxServers:        8,
	})

	path := filepath.Join(t.TempDir(), "scenarios.json")
	require.NoError(t, ExportScenariosJSON(a, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	rows := out["EB Vehicles"]
	require.NotEmpty(t, rows)

	last := rows[len(rows)-1]
	assert.Equal(t, "safe", last["name"])
	assert.Equal(t, false, last["feasible"])
	assert.InDelta(t, 0.708, last["best_utilization"].(float64), 1e-9)
}

func TestErlangCrossCheck(t *testing.T) {
	a := sampleAnalysis(t)
	pairs := ErlangCrossCheck(a.Groups[0], 340)
	require.Len(t, pairs, 8)

	// Saturated counts are infinite on both sides.
	assert.True(t, math.IsInf(pairs[5][0], 1))
	assert.True(t, math.IsInf(pairs[5][1], 1))
	// Stable counts produce finite waits on both sides.
	assert.False(t, math.IsInf(pairs[6][0], 1))
	assert.False(t, math.IsInf(pairs[6][1], 1))
}

func TestFiniteOrNull(t *testing.T) {
	assert.Nil(t, finiteOrNull(math.Inf(1)))
	assert.Nil(t, finiteOrNull(math.NaN()))
	require.NotNil(t, finiteOrNull(1.5))
	assert.Equal(t, 1.5, *finiteOrNull(1.5))
}
