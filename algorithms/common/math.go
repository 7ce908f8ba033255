package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions used across algorithms using gonum for robustness

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Variance calculates the sample variance of a slice using gonum
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.Variance(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return math.Sqrt(Variance(data))
}

// Sum calculates the total of a slice using gonum
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Sum(data)
}

// PeakBin returns the index of the largest value, or -1 for an empty slice.
// Ties resolve to the lowest index.
func PeakBin(data []float64) int {
	if len(data) == 0 {
		return -1
	}
	return floats.MaxIdx(data)
}

// SpectralCentroid computes the power-weighted mean frequency of a spectrum
// over its grid: sum(w_k * p_k) / sum(p_k). A spectrum with no energy has no
// center of mass; zero is returned.
func SpectralCentroid(power, grid []float64) float64 {
	if len(power) == 0 || len(power) != len(grid) {
		return 0.0
	}

	total := floats.Sum(power)
	if total == 0 {
		return 0.0
	}

	weighted := 0.0
	for i, p := range power {
		weighted += grid[i] * p
	}
	return weighted / total
}
