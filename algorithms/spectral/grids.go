package spectral

import (
	"math"
)

// FullTurnGrid returns the grid w_k = 2*pi*k/points for k in [0, points).
// This is the generic spectrum-analysis grid.
func FullTurnGrid(points int) []float64 {
	if points <= 0 {
		return []float64{}
	}

	grid := make([]float64, points)
	scale := (2 * math.Pi) / float64(points)
	for k := range grid {
		grid[k] = scale * float64(k)
	}
	return grid
}

// HalfTurnGrid returns the grid w_k = pi*k/(points-1) for k in [0, points),
// covering 0..pi inclusive. The DTFT of a real-valued signal is conjugate
// symmetric around pi, so classification only ever evaluates this half.
func HalfTurnGrid(points int) []float64 {
	if points <= 0 {
		return []float64{}
	}
	if points == 1 {
		return []float64{0}
	}

	grid := make([]float64, points)
	scale := math.Pi / float64(points-1)
	for k := range grid {
		grid[k] = scale * float64(k)
	}
	return grid
}
