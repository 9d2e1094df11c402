// Package sensitivity approximates the wait-time curve with truncated Taylor
// series around a chosen utilization, quantifying how sensitive the queueing
// predictions are to utilization shifts and how quickly the polynomial
// approximations break down near saturation.
package sensitivity

import (
	"math"

	"crossplan/variability"
)

// step is the central-difference step. Large enough that the third-order
// difference stays out of floating-point noise.
const step = 1e-4

// Derivative estimates the nth derivative (n = 1..3) of f at x by central
// differences.
func Derivative(f func(float64) float64, x float64, n int) float64 {
	h := step
	switch n {
	case 1:
		return (f(x+h) - f(x-h)) / (2 * h)
	case 2:
		return (f(x+h) - 2*f(x) + f(x-h)) / (h * h)
	case 3:
		return (f(x+2*h) - 2*f(x+h) + 2*f(x-h) - f(x-2*h)) / (2 * h * h * h)
	default:
		return math.NaN()
	}
}

// Expansion caches f and its first three derivatives at the expansion point.
type Expansion struct {
	Point float64
	Value float64
	D1    float64
	D2    float64
	D3    float64
}

// Expand builds a Taylor expansion of f around x0.
func Expand(f func(float64) float64, x0 float64) Expansion {
	return Expansion{
		Point: x0,
		Value: f(x0),
		D1:    Derivative(f, x0, 1),
		D2:    Derivative(f, x0, 2),
		D3:    Derivative(f, x0, 3),
	}
}

// Approx evaluates the truncated series of the given order (1..3) at x.
func (e Expansion) Approx(order int, x float64) float64 {
	d := x - e.Point
	v := e.Value + e.D1*d
	if order >= 2 {
		v += e.D2 / 2 * d * d
	}
	if order >= 3 {
		v += e.D3 / 6 * d * d * d
	}
	return v
}

// Sample compares the exact wait curve against the truncated expansions at
// one utilization.
type Sample struct {
	Rho    float64
	Exact  float64
	Order1 float64
	Order2 float64
	Order3 float64
}

// Analysis is the per-entity sensitivity result.
type Analysis struct {
	EntityType     string
	ExpansionPoint float64
	WaitAtPoint    float64 // seconds
	DWaitDRho      float64 // seconds per unit utilization
	DWaitDCV       float64 // seconds per unit arrival CV
	DWaitDMu       float64 // seconds per (entity/hour/server)
	Samples        []Sample
}

// Analyze expands the single-server Kingman wait around expansionPoint for
// one entity's measured variability. Undefined CVs fall back to defaultCV.
func Analyze(s variability.EntityStats, serviceRate, expansionPoint, defaultCV float64) Analysis {
	cva := s.CVInterArrival.OrDefault(defaultCV)
	cvs := s.CVService.OrDefault(defaultCV)

	waitAtRho := func(rho float64) float64 {
		return kingmanWaitSeconds(rho, cva, cvs, serviceRate)
	}

	exp := Expand(waitAtRho, expansionPoint)

	a := Analysis{
		EntityType:     s.EntityType,
		ExpansionPoint: expansionPoint,
		WaitAtPoint:    exp.Value,
		DWaitDRho:      exp.D1,
		DWaitDCV: Derivative(func(cv float64) float64 {
			return kingmanWaitSeconds(expansionPoint, cv, cvs, serviceRate)
		}, cva, 1),
		DWaitDMu: Derivative(func(mu float64) float64 {
			return kingmanWaitSeconds(expansionPoint, cva, cvs, mu)
		}, serviceRate, 1),
	}

	for rho := 0.05; rho < 0.96; rho += 0.05 {
		a.Samples = append(a.Samples, Sample{
			Rho:    rho,
			Exact:  waitAtRho(rho),
			Order1: exp.Approx(1, rho),
			Order2: exp.Approx(2, rho),
			Order3: exp.Approx(3, rho),
		})
	}
	return a
}

// kingmanWaitSeconds is the single-server VUT wait as a function of ρ
// directly, rather than of λ, so it can be differentiated in each parameter
// independently.
func kingmanWaitSeconds(rho, cva, cvs, serviceRate float64) float64 {
	if rho >= 1 {
		return math.Inf(1)
	}
	if rho < 0 || serviceRate <= 0 {
		return math.NaN()
	}
	variabilityTerm := (cva*cva + cvs*cvs) / 2
	return rho / (1 - rho) * variabilityTerm / serviceRate * 3600
}
