package brawn

import (
	"math"
	"testing"
)

func TestCalculateDistance(t *testing.T) {
	tests := []struct {
		similarity float64
		expected   float64
	}{
		// Identical sequences have zero distance.
		{1.0, 0},
		// Analytic region: -ln(1 - d - d^2/5).
		{0.9, -math.Log(1 - 0.1 - 0.1*0.1/5)},
		{0.5, -math.Log(1 - 0.5 - 0.5*0.5/5)},
		// Table region.
		{0.25, 1.95},
		{0.2, 2.46},
		{0.07, 9.88},
		// Clamped region.
		{0.05, 10},
		{0, 10},
	}
	for _, test := range tests {
		if got := calculateDistance(test.similarity); !nearEqual(got, test.expected) {
			t.Errorf("calculateDistance(%v): expected %v, got %v",
				test.similarity, test.expected, got)
		}
	}
}

func TestCalculateDistanceMonotonic(t *testing.T) {
	// Lower similarity must never produce a smaller distance, including
	// across the analytic/table and table/clamp boundaries.
	previous := -1.0
	for similarity := 1.0; similarity >= 0; similarity -= 0.005 {
		d := calculateDistance(similarity)
		if d < previous {
			t.Fatalf("distance decreased from %v to %v at similarity %v",
				previous, d, similarity)
		}
		previous = d
	}
}
