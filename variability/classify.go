package variability

// Class buckets a CV into the variability levels used when picking
// utilization targets: regular arrivals tolerate higher utilization than
// bursty ones.
type Class string

const (
	ClassLow          Class = "Low (Regular arrivals)"
	ClassMedium       Class = "Medium (Random arrivals)"
	ClassHigh         Class = "High (Bursty arrivals)"
	ClassInsufficient Class = "Insufficient data"
)

// CV thresholds between the classes. CV=1 is exponential/Poisson arrivals.
const (
	lowCVBound  = 0.75
	highCVBound = 1.25
)

// Classify maps a CV to its variability class. An undefined CV (single
// observation) classifies as insufficient data, not as low variability.
func Classify(cv Coefficient) Class {
	switch {
	case !cv.Defined:
		return ClassInsufficient
	case cv.Value < lowCVBound:
		return ClassLow
	case cv.Value < highCVBound:
		return ClassMedium
	default:
		return ClassHigh
	}
}

// RecommendedMaxUtilization is the utilization ceiling suggested for a
// variability class: the burstier the arrivals, the larger the capacity
// buffer has to be.
func (c Class) RecommendedMaxUtilization() float64 {
	switch c {
	case ClassLow:
		return 0.85
	case ClassHigh:
		return 0.65
	default:
		return 0.75
	}
}
