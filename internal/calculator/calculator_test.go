package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{42}, 0},
		{"rise", []float64{100, 110}, 10},
		{"fall", []float64{90, 100, 95}, -5},
		{"zero previous", []float64{0, 10}, 0},
	}
	for _, tt := range tests {
		got := PercentChange(tt.values)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: expected %.4f, got %.4f", tt.name, tt.want, got)
		}
	}
}

func TestPercentChange_ShortSeriesIsExactlyZero(t *testing.T) {
	for _, v := range [][]float64{nil, {}, {1}, {-3.5}} {
		if got := PercentChange(v); got != 0.0 {
			t.Errorf("series %v: expected exactly 0, got %v", v, got)
		}
	}
}

func TestCalculateSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	got, err := CalculateSMA(values, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5 {
		t.Errorf("expected 5, got %v", got)
	}

	if _, err := CalculateSMA(values, 7); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := CalculateSMA(values, 0); err == nil {
		t.Error("expected error for non-positive period")
	}
}

func TestWindowMean_UsesTrailingValues(t *testing.T) {
	values := []float64{100, 100, 100, 100, 100, 90}
	got, err := WindowMean(values, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 98 {
		t.Errorf("expected 98, got %v", got)
	}
}

func TestWindowRange(t *testing.T) {
	high, low, err := WindowRange([]float64{5, 9, 3, 7, 4}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 7 || low != 3 {
		t.Errorf("expected high=7 low=3, got high=%v low=%v", high, low)
	}
	if _, _, err := WindowRange([]float64{1}, 2); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestIsRecentLow(t *testing.T) {
	if !IsRecentLow([]float64{10, 9, 8, 7}, 3) {
		t.Error("expected last value to be the recent low")
	}
	if IsRecentLow([]float64{10, 6, 8, 7}, 3) {
		t.Error("expected 6 to be the low, not the last value")
	}
	if IsRecentLow([]float64{7}, 5) {
		t.Error("expected false for insufficient history")
	}
}
