package stats

import (
	"gonum.org/v1/gonum/floats"
)

// Distance functions for comparing magnitude spectra. Inputs must have equal
// length; the nearest-neighbor matcher guarantees that before calling.

// SquaredEuclideanDistance calculates the sum of squared differences between
// two vectors. The square root is omitted on purpose: nearest-neighbor
// matching only compares distances, and dropping the root preserves ordering.
func SquaredEuclideanDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// EuclideanDistance calculates the true L2 distance using gonum
func EuclideanDistance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// ManhattanDistance calculates the L1 distance using gonum
func ManhattanDistance(a, b []float64) float64 {
	return floats.Distance(a, b, 1)
}
