package spectral

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/pattern-sonar/algorithms/trig"
)

// naiveBin evaluates one frequency bin with exact trigonometry and no
// unrolling, as the ground truth for the lookup-table engine
func naiveBin(signal []byte, omega float64) (re, im float64) {
	for n, x := range signal {
		angle := -omega * float64(n)
		re += float64(x) * math.Cos(angle)
		im += float64(x) * math.Sin(angle)
	}
	return re, im
}

func randomBits(n int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	bits := make([]byte, n)
	for i := range bits {
		bits[i] = byte(rng.Intn(2))
	}
	return bits
}

func TestTransform_MatchesExactTrigonometry(t *testing.T) {
	d := NewDTFT()
	signal := randomBits(80, 1)
	grid := HalfTurnGrid(41)

	spectrum := d.Transform(signal, grid)
	require.Len(t, spectrum, 41)

	// Tolerance covers the lookup-table interpolation error accumulated over
	// 80 samples plus the running-angle rounding.
	const tolerance = 5e-3
	for k, omega := range grid {
		re, im := naiveBin(signal, omega)
		assert.InDelta(t, re, real(spectrum[k]), tolerance, "bin %d real", k)
		assert.InDelta(t, im, imag(spectrum[k]), tolerance, "bin %d imag", k)
	}
}

func TestTransform_MatchesFFTOnFullTurnGrid(t *testing.T) {
	// On the full-turn grid with as many points as samples the DTFT reduces
	// to the DFT, so go-dsp's FFT is an exact oracle.
	d := NewDTFT()
	signal := randomBits(64, 2)
	grid := FullTurnGrid(len(signal))

	spectrum := d.Transform(signal, grid)

	samples := make([]float64, len(signal))
	for i, x := range signal {
		samples[i] = float64(x)
	}
	oracle := fft.FFTReal(samples)

	require.Len(t, spectrum, len(oracle))
	for k := range spectrum {
		assert.InDelta(t, real(oracle[k]), real(spectrum[k]), 1e-2, "bin %d real", k)
		assert.InDelta(t, imag(oracle[k]), imag(spectrum[k]), 1e-2, "bin %d imag", k)
	}
}

func TestTransform_UnrollingDoesNotChangeResults(t *testing.T) {
	// Signal lengths around the unroll width exercise every tail length
	d := NewDTFT()
	grid := HalfTurnGrid(11)

	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 9, 15, 16, 17} {
		signal := randomBits(n, int64(n))
		spectrum := d.Transform(signal, grid)

		for k, omega := range grid {
			// Group size 1 with the same lookup table: only the summation
			// order differs from the unrolled loop.
			var re, im float64
			angle := 0.0
			for _, x := range signal {
				re += float64(x) * d.Table().Cos(angle)
				im += float64(x) * d.Table().Sin(angle)
				angle += -omega
			}
			assert.InDelta(t, re, real(spectrum[k]), 1e-9, "n=%d bin %d real", n, k)
			assert.InDelta(t, im, imag(spectrum[k]), 1e-9, "n=%d bin %d imag", n, k)
		}
	}
}

func TestTransform_EmptyGridAndEmptySignal(t *testing.T) {
	d := NewDTFT()

	assert.Empty(t, d.Transform(randomBits(16, 3), nil))
	assert.Empty(t, d.Transform(randomBits(16, 3), []float64{}))

	spectrum := d.Transform(nil, HalfTurnGrid(41))
	require.Len(t, spectrum, 41)
	for k, v := range spectrum {
		assert.Zero(t, real(v), "bin %d", k)
		assert.Zero(t, imag(v), "bin %d", k)
	}
}

func TestMagnitudeAt_MatchesTransform(t *testing.T) {
	d := NewDTFT()
	signal := randomBits(40, 4)

	for _, omega := range []float64{0, 0.1, math.Pi / 4, math.Pi / 2, math.Pi} {
		spectrum := d.Transform(signal, []float64{omega})
		want := math.Sqrt(real(spectrum[0])*real(spectrum[0]) + imag(spectrum[0])*imag(spectrum[0]))
		assert.InDelta(t, want, d.MagnitudeAt(signal, omega), 1e-12)
	}
}

func TestMagnitudeAt_DCBinCountsOnes(t *testing.T) {
	// At omega 0 every sample contributes its value directly
	d := NewDTFT()
	signal := []byte{1, 0, 1, 1, 0, 1, 1, 1}

	assert.InDelta(t, 6.0, d.MagnitudeAt(signal, 0), 1e-6)
}

func TestNewDTFTWithTable_UsesProvidedTable(t *testing.T) {
	table, err := trig.NewTable(256)
	require.NoError(t, err)

	d := NewDTFTWithTable(table)
	assert.Same(t, table, d.Table())

	fallback := NewDTFTWithTable(nil)
	assert.Same(t, trig.Default(), fallback.Table())
}

func TestFullTurnGrid(t *testing.T) {
	grid := FullTurnGrid(128)
	require.Len(t, grid, 128)
	assert.Zero(t, grid[0])
	assert.InDelta(t, 2*math.Pi*127.0/128.0, grid[127], 1e-12)

	assert.Empty(t, FullTurnGrid(0))
	assert.Empty(t, FullTurnGrid(-3))
}

func TestHalfTurnGrid(t *testing.T) {
	grid := HalfTurnGrid(41)
	require.Len(t, grid, 41)
	assert.Zero(t, grid[0])
	assert.InDelta(t, math.Pi, grid[40], 1e-12)
	assert.InDelta(t, math.Pi/40, grid[1], 1e-12)

	assert.Equal(t, []float64{0}, HalfTurnGrid(1))
	assert.Empty(t, HalfTurnGrid(0))
}

func TestPowerSpectrum_Compute(t *testing.T) {
	ps := NewPowerSpectrum()

	spectrum := []complex128{complex(3, 4), complex(0, 0), complex(-1, 1)}
	power := ps.Compute(spectrum)
	require.Len(t, power, 3)
	assert.InDelta(t, 25.0, power[0], 1e-12)
	assert.Zero(t, power[1])
	assert.InDelta(t, 2.0, power[2], 1e-12)

	magnitudes := ps.ComputeMagnitude(spectrum)
	assert.InDelta(t, 5.0, magnitudes[0], 1e-12)
	assert.InDelta(t, math.Sqrt2, magnitudes[2], 1e-12)

	assert.Empty(t, ps.Compute(nil))
	assert.Empty(t, ps.ComputeMagnitude(nil))
}
