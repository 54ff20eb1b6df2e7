package models

import "math"

// MassEpsilon is the tolerance, in kg, used on every mass-balance comparison.
// Computed sums are never compared with exact float equality.
const MassEpsilon = 0.001

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds a weight in kg to 3 decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
