package queueing

// Classification is the ordinal performance tag attached to a result.
type Classification string

const (
	ClassExcellent  Classification = "excellent"
	ClassGood       Classification = "good"
	ClassAcceptable Classification = "acceptable"
	ClassPoor       Classification = "poor"
	ClassUnstable   Classification = "unstable"
)

// Wait-time thresholds (seconds) between the classes.
const (
	ExcellentWaitBound  = 5.0
	GoodWaitBound       = 30.0
	AcceptableWaitBound = 120.0
)

// Classify maps utilization and expected wait to a performance class.
// ρ ≥ 1 is always unstable regardless of any wait figure.
func Classify(rho, waitSeconds float64) Classification {
	switch {
	case rho >= 1:
		return ClassUnstable
	case waitSeconds < ExcellentWaitBound:
		return ClassExcellent
	case waitSeconds < GoodWaitBound:
		return ClassGood
	case waitSeconds < AcceptableWaitBound:
		return ClassAcceptable
	default:
		return ClassPoor
	}
}
