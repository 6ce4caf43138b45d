package domain

import "math"

// Part is one weighted input to Combine. A nil Value marks an unavailable signal.
type Part struct {
	Value  *float64
	Weight float64
}

// Value returns a pointer to v for building parts.
func Value(v float64) *float64 {
	return &v
}

// Combine returns the weighted mean of the parts that carry a finite value.
// The divisor is the sum of the weights of those parts only. ok is false when
// no part is available or the available weights sum to zero.
func Combine(parts []Part) (float64, bool) {
	var sum, weights float64
	for _, p := range parts {
		if p.Value == nil || math.IsNaN(*p.Value) || math.IsInf(*p.Value, 0) {
			continue
		}
		sum += *p.Value * p.Weight
		weights += p.Weight
	}
	if weights == 0 {
		return 0, false
	}
	return sum / weights, true
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
