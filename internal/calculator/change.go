package calculator

import "math"

// PercentChange returns the last step change of a series in percent:
// (last/secondToLast - 1) * 100. Series shorter than 2 values yield 0.
func PercentChange(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	prev := values[n-2]
	if prev == 0 {
		return 0
	}
	pct := (values[n-1]/prev - 1) * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}
