package queueing

import "fmt"

// Parameters are the inputs to one queueing evaluation.
type Parameters struct {
	ArrivalRate float64 // λ, entities per hour
	ServiceRate float64 // μ, entities per hour per server
	Servers     int     // c
	CVArrival   float64 // coefficient of variation of inter-arrival times
	CVService   float64 // coefficient of variation of service times
}

// Utilization is the traffic intensity ρ = λ/(c·μ).
func (p Parameters) Utilization() float64 {
	return p.ArrivalRate / (float64(p.Servers) * p.ServiceRate)
}

// Stable reports whether demand is below capacity (ρ < 1).
func (p Parameters) Stable() bool {
	return p.Utilization() < 1.0
}

// validate rejects domain-invalid numerics. These are caller programming
// mistakes, not transient conditions; there is nothing to retry.
func (p Parameters) validate() error {
	switch {
	case p.Servers <= 0:
		return &InvalidParameterError{Name: "servers", Value: float64(p.Servers)}
	case p.ArrivalRate <= 0:
		return &InvalidParameterError{Name: "arrival rate", Value: p.ArrivalRate}
	case p.ServiceRate <= 0:
		return &InvalidParameterError{Name: "service rate", Value: p.ServiceRate}
	case p.CVArrival < 0:
		return &InvalidParameterError{Name: "arrival CV", Value: p.CVArrival}
	case p.CVService < 0:
		return &InvalidParameterError{Name: "service CV", Value: p.CVService}
	}
	return nil
}

// InvalidParameterError reports a non-positive rate or server count passed
// to an evaluation.
type InvalidParameterError struct {
	Name  string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid queueing parameter: %s = %g (must be positive)", e.Name, e.Value)
}
