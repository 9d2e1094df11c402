package sensitivity

import (
	"math"
	"testing"

	"crossplan/variability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivativeOfCubic(t *testing.T) {
	f := func(x float64) float64 { return x * x * x }

	assert.InDelta(t, 12.0, Derivative(f, 2, 1), 1e-5)
	assert.InDelta(t, 12.0, Derivative(f, 2, 2), 1e-3)
	assert.InDelta(t, 6.0, Derivative(f, 2, 3), 0.1)
	assert.True(t, math.IsNaN(Derivative(f, 2, 4)))
}

func TestExpandExactAtPoint(t *testing.T) {
	f := func(x float64) float64 { return math.Exp(x) }
	e := Expand(f, 0.5)

	assert.InDelta(t, f(0.5), e.Value, 1e-12)
	for order := 1; order <= 3; order++ {
		assert.InDelta(t, e.Value, e.Approx(order, 0.5), 1e-12)
	}
}

func TestExpandApproximatesNearPoint(t *testing.T) {
	f := func(x float64) float64 { return math.Exp(x) }
	e := Expand(f, 0.5)

	x := 0.6
	exact := f(x)
	err1 := math.Abs(e.Approx(1, x) - exact)
	err2 := math.Abs(e.Approx(2, x) - exact)
	err3 := math.Abs(e.Approx(3, x) - exact)

	assert.Less(t, err2, err1)
	assert.Less(t, err3, err2)
}

func poissonStats(entity string) variability.EntityStats {
	return variability.EntityStats{
		EntityType:     entity,
		CVInterArrival: variability.Coefficient{Value: 1.0, Defined: true},
		CVService:      variability.Coefficient{Value: 1.0, Defined: true},
	}
}

func TestAnalyzeMatchesKingmanAtExpansionPoint(t *testing.T) {
	a := Analyze(poissonStats("Crossers"), 120, 0.5, 1.0)

	assert.Equal(t, "Crossers", a.EntityType)
	assert.Equal(t, 0.5, a.ExpansionPoint)
	// ρ/(1-ρ)·1·(3600/120) at ρ=0.5 is 30 s.
	assert.InDelta(t, 30.0, a.WaitAtPoint, 1e-6)
	assert.Greater(t, a.DWaitDRho, 0.0)
	assert.Greater(t, a.DWaitDCV, 0.0)
	assert.Less(t, a.DWaitDMu, 0.0)
}

func TestAnalyzeSamplesCoverTheCurve(t *testing.T) {
	a := Analyze(poissonStats("Posers"), 60, 0.5, 1.0)
	require.Len(t, a.Samples, 19)

	// Exact waits grow monotonically with utilization.
	for i := 1; i < len(a.Samples); i++ {
		assert.Greater(t, a.Samples[i].Exact, a.Samples[i-1].Exact)
	}

	// Near the expansion point the higher orders dominate; approaching
	// saturation the polynomials fall apart while the exact curve blows up.
	near := a.Samples[10] // ρ=0.55
	assert.Less(t, math.Abs(near.Order3-near.Exact), math.Abs(near.Order1-near.Exact))

	far := a.Samples[len(a.Samples)-1] // ρ=0.95
	assert.Greater(t, far.Exact, far.Order3)
}

func TestAnalyzeFallsBackToDefaultCV(t *testing.T) {
	s := variability.EntityStats{EntityType: "Posers"}
	a := Analyze(s, 120, 0.5, 1.0)
	// Undefined CVs substitute the default, reproducing the Poisson wait.
	assert.InDelta(t, 30.0, a.WaitAtPoint, 1e-6)
}

func TestKingmanWaitSecondsEdges(t *testing.T) {
	assert.True(t, math.IsInf(kingmanWaitSeconds(1.0, 1, 1, 60), 1))
	assert.True(t, math.IsInf(kingmanWaitSeconds(1.5, 1, 1, 60), 1))
	assert.True(t, math.IsNaN(kingmanWaitSeconds(-0.1, 1, 1, 60)))
	assert.True(t, math.IsNaN(kingmanWaitSeconds(0.5, 1, 1, 0)))
	assert.Zero(t, kingmanWaitSeconds(0.5, 0, 0, 60))
}
