package queueing

import "math"

// Result is the evaluated performance of one (λ, μ, c) combination.
type Result struct {
	Servers             int            `json:"servers"`
	Utilization         float64        `json:"utilization"`
	WaitSeconds         float64        `json:"avg_wait_queue"` // +Inf when unstable
	TimeInSystemSeconds float64        `json:"avg_time_system"`
	QueueLength         float64        `json:"avg_num_queue"`
	SystemLength        float64        `json:"avg_num_system"`
	ProbWait            float64        `json:"prob_wait"`
	Classification      Classification `json:"performance_class"`
}

// Stable reports whether the evaluated configuration can keep up with
// demand.
func (r Result) Stable() bool {
	return r.Classification != ClassUnstable
}

// Evaluate computes the full metric set for one parameter combination.
// ρ ≥ 1 short-circuits to an unstable result with infinite waits; no
// formula applies past that point.
func Evaluate(p Parameters) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{}, err
	}

	rho := p.Utilization()
	if rho >= 1 {
		inf := math.Inf(1)
		return Result{
			Servers:             p.Servers,
			Utilization:         rho,
			WaitSeconds:         inf,
			TimeInSystemSeconds: inf,
			QueueLength:         inf,
			SystemLength:        inf,
			ProbWait:            1,
			Classification:      ClassUnstable,
		}, nil
	}

	var waitHours float64
	if p.Servers == 1 {
		waitHours = kingmanWaitHours(p, rho)
	} else {
		waitHours = sakasegawaWaitHours(p, rho)
	}
	waitSeconds := waitHours * 3600
	serviceSeconds := 3600 / p.ServiceRate
	timeInSystem := waitSeconds + serviceSeconds

	var probWait float64
	if p.Servers == 1 {
		probWait = rho
	} else {
		probWait = ErlangC(p.Servers, p.ArrivalRate/p.ServiceRate)
	}

	return Result{
		Servers:             p.Servers,
		Utilization:         rho,
		WaitSeconds:         waitSeconds,
		TimeInSystemSeconds: timeInSystem,
		QueueLength:         QueueLength(p.ArrivalRate, waitSeconds),
		SystemLength:        QueueLength(p.ArrivalRate, timeInSystem),
		ProbWait:            probWait,
		Classification:      Classify(rho, waitSeconds),
	}, nil
}

// Sweep evaluates server counts 1..maxServers with fixed rates and CVs,
// returning results in ascending server order.
func Sweep(arrivalRate, serviceRate, cvArrival, cvService float64, maxServers int) ([]Result, error) {
	if maxServers <= 0 {
		return nil, &InvalidParameterError{Name: "max servers", Value: float64(maxServers)}
	}
	results := make([]Result, 0, maxServers)
	for c := 1; c <= maxServers; c++ {
		r, err := Evaluate(Parameters{
			ArrivalRate: arrivalRate,
			ServiceRate: serviceRate,
			Servers:     c,
			CVArrival:   cvArrival,
			CVService:   cvService,
		})
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// kingmanWaitHours is Kingman's VUT equation for a single server.
func kingmanWaitHours(p Parameters, rho float64) float64 {
	variability := (p.CVArrival*p.CVArrival + p.CVService*p.CVService) / 2
	congestion := rho / (1 - rho)
	return congestion * variability * (1 / p.ServiceRate)
}

// sakasegawaWaitHours generalizes the congestion term to c servers via the
// exponent √(2(c+1))−1. At c=1 it coincides with Kingman's form.
func sakasegawaWaitHours(p Parameters, rho float64) float64 {
	c := float64(p.Servers)
	variability := (p.CVArrival*p.CVArrival + p.CVService*p.CVService) / 2
	congestion := math.Pow(rho, math.Sqrt(2*(c+1))-1) / (c * (1 - rho))
	return congestion * variability * (1 / p.ServiceRate)
}

// ErlangC is the probability that an arrival waits in an M/M/c queue with
// offered load a = λ/μ. Computed through the Erlang-B recurrence, which
// avoids the overflow-prone factorial ratios. Returns 1 for a ≥ c.
func ErlangC(c int, a float64) float64 {
	if c <= 0 || a <= 0 {
		return 0
	}
	if a >= float64(c) {
		return 1
	}
	b := 1.0
	for k := 1; k <= c; k++ {
		b = a * b / (float64(k) + a*b)
	}
	cf := float64(c)
	return cf * b / (cf - a*(1-b))
}

// ErlangCWaitSeconds is the exact M/M/c expected wait, used as a cross-check
// against the Sakasegawa approximation when CV ≈ 1.
func ErlangCWaitSeconds(arrivalRate, serviceRate float64, servers int) float64 {
	a := arrivalRate / serviceRate
	if a >= float64(servers) {
		return math.Inf(1)
	}
	pw := ErlangC(servers, a)
	return pw / (float64(servers)*serviceRate - arrivalRate) * 3600
}

// QueueLength applies Little's Law: L = λW, with λ per hour and W in
// seconds.
func QueueLength(arrivalRatePerHour, waitSeconds float64) float64 {
	return arrivalRatePerHour / 3600 * waitSeconds
}

// ProbWaitExceeds estimates P(Wait > t) assuming exponentially distributed
// waits around the computed mean.
func ProbWaitExceeds(meanWaitSeconds, t float64) float64 {
	if meanWaitSeconds <= 0 {
		return 0
	}
	return math.Exp(-t / meanWaitSeconds)
}

// MinServers is the smallest server count keeping utilization at or below
// the target: ceil(λ/(μ·target)), at least 1.
func MinServers(arrivalRate, serviceRate, targetUtilization float64) int {
	if targetUtilization <= 0 || serviceRate <= 0 {
		return 1
	}
	c := int(math.Ceil(arrivalRate / (serviceRate * targetUtilization)))
	if c < 1 {
		c = 1
	}
	return c
}

// OptimalServers searches upward from the 85%-utilization minimum for the
// first server count whose expected wait meets the target, giving up after
// twenty extra servers and returning the minimum.
func OptimalServers(arrivalRate, serviceRate, cvArrival, targetWaitSeconds float64) int {
	min := MinServers(arrivalRate, serviceRate, 0.85)
	for c := min; c < min+20; c++ {
		r, err := Evaluate(Parameters{
			ArrivalRate: arrivalRate,
			ServiceRate: serviceRate,
			Servers:     c,
			CVArrival:   cvArrival,
			CVService:   1.0,
		})
		if err != nil {
			break
		}
		if r.Stable() && r.WaitSeconds <= targetWaitSeconds {
			return c
		}
	}
	return min
}
