package spectral

import (
	"math"

	"github.com/RyanBlaney/pattern-sonar/algorithms/trig"
)

// DTFT evaluates the discrete-time Fourier transform of a small sample buffer
// at an arbitrary set of normalized angular frequencies. The evaluation is a
// direct O(N*K) summation; the frequency count is small and fixed, so a fast
// transform buys nothing here.
//
// Trigonometric values come from a lookup table rather than math.Sin/math.Cos,
// matching the per-sample cost profile the engine is designed around. The
// angle for sample n at frequency w is -w*n, carried as a running accumulator
// instead of a per-sample multiply.
type DTFT struct {
	lut *trig.Table
}

// NewDTFT creates a DTFT calculator over the shared default lookup table
func NewDTFT() *DTFT {
	return &DTFT{lut: trig.Default()}
}

// NewDTFTWithTable creates a DTFT calculator over an explicit lookup table
func NewDTFTWithTable(table *trig.Table) *DTFT {
	if table == nil {
		table = trig.Default()
	}
	return &DTFT{lut: table}
}

// Table returns the lookup table the calculator reads from
func (d *DTFT) Table() *trig.Table {
	return d.lut
}

// bin accumulates the real and imaginary parts of one frequency bin.
// The main loop handles samples in groups of four; any group size produces
// the same result up to floating-point summation order.
func (d *DTFT) bin(signal []byte, omega float64) (re, im float64) {
	negOmega := -omega
	angle := 0.0

	n := 0
	unrolled := len(signal) &^ 3

	for ; n < unrolled; n += 4 {
		a1 := angle
		a2 := angle + negOmega
		a3 := angle + 2*negOmega
		a4 := angle + 3*negOmega

		c1, s1 := d.lut.Cos(a1), d.lut.Sin(a1)
		c2, s2 := d.lut.Cos(a2), d.lut.Sin(a2)
		c3, s3 := d.lut.Cos(a3), d.lut.Sin(a3)
		c4, s4 := d.lut.Cos(a4), d.lut.Sin(a4)

		re += float64(signal[n])*c1 + float64(signal[n+1])*c2 +
			float64(signal[n+2])*c3 + float64(signal[n+3])*c4
		im += float64(signal[n])*s1 + float64(signal[n+1])*s2 +
			float64(signal[n+2])*s3 + float64(signal[n+3])*s4

		angle += 4 * negOmega
	}

	for ; n < len(signal); n++ {
		re += float64(signal[n]) * d.lut.Cos(angle)
		im += float64(signal[n]) * d.lut.Sin(angle)
		angle += negOmega
	}

	return re, im
}

// MagnitudeAt computes the DTFT magnitude at a single normalized frequency
func (d *DTFT) MagnitudeAt(signal []byte, omega float64) float64 {
	re, im := d.bin(signal, omega)
	return math.Sqrt(re*re + im*im)
}

// Transform evaluates the complex DTFT of signal at every frequency in grid.
// An empty grid or an empty signal is accepted: the former yields an empty
// spectrum, the latter an all-zero one.
func (d *DTFT) Transform(signal []byte, grid []float64) []complex128 {
	out := make([]complex128, len(grid))
	d.transformRange(signal, grid, 0, len(grid), out)
	return out
}

// transformRange fills out[start:end] with the bins for grid[start:end].
// Shared by the serial path and both halves of the parallel path.
func (d *DTFT) transformRange(signal []byte, grid []float64, start, end int, out []complex128) {
	for k := start; k < end; k++ {
		re, im := d.bin(signal, grid[k])
		out[k] = complex(re, im)
	}
}
