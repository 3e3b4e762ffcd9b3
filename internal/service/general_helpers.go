package service

import "math"

// RoundingPrecision is the multiplier used for two-decimal monetary rounding.
const RoundingPrecision = 100

// round rounds a float64 value to two decimal places, the precision used for
// monetary values throughout the service layer.
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// roundTo rounds a value to the given number of decimal places. Used where a
// field carries more or less precision than money does (profit percentages,
// interval statistics).
func roundTo(value float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(value*p) / p
}
