// Package report renders an analysis run as a human-readable text report, a
// machine-readable scenario table, and JSON exports for downstream tooling.
package report

import (
	"time"

	"crossplan/planner"
	"crossplan/queueing"
	"crossplan/traffic"
	"crossplan/variability"

	"github.com/google/uuid"
)

// GroupAnalysis collects everything derived for one entity-type group.
type GroupAnalysis struct {
	Key         string
	Stats       variability.EntityStats
	ServiceRate float64
	Sweep       []queueing.Result
	Scenarios   []planner.Scenario
	Infeasible  []*planner.InfeasibleScenarioError
	Recommended *planner.Scenario
}

// Analysis is the complete result of one run, in deterministic group order.
type Analysis struct {
	RunID       string
	GeneratedAt time.Time
	Ingest      *traffic.IngestSummary
	Groups      []GroupAnalysis
}

// NewAnalysis stamps a fresh run with its identifier and timestamp.
func NewAnalysis(ingest *traffic.IngestSummary) *Analysis {
	return &Analysis{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Ingest:      ingest,
	}
}
