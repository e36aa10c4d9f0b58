package calculator

import (
	"math"
)

// WindowRange returns the high and low of the last size values.
func WindowRange(values []float64, size int) (high, low float64, err error) {
	if size <= 0 || len(values) < size {
		return 0, 0, ErrInsufficientData
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, v := range values[len(values)-size:] {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return high, low, nil
}

// IsRecentLow reports whether the last value is the lowest of the trailing window.
func IsRecentLow(values []float64, size int) bool {
	_, low, err := WindowRange(values, size)
	if err != nil {
		return false
	}
	return values[len(values)-1] == low
}
