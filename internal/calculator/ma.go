package calculator

import (
	"errors"
)

// ErrInsufficientData is returned when a series is shorter than the requested window.
var ErrInsufficientData = errors.New("not enough data for window")

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// WindowMean is the trailing-window mean used by the trend scorer.
// Windows with insufficient history must be skipped by the caller.
func WindowMean(values []float64, size int) (float64, error) {
	return CalculateSMA(values, size)
}
