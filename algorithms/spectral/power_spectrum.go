package spectral

import (
	"math"
)

// PowerSpectrum derives magnitude and power values from complex spectra
type PowerSpectrum struct {
	// No state needed - stateless calculation
}

// NewPowerSpectrum creates a new power spectrum calculator
func NewPowerSpectrum() *PowerSpectrum {
	return &PowerSpectrum{}
}

// Compute computes squared magnitudes (re^2 + im^2) per bin. Classification
// works on squared magnitudes exclusively: only the relative ordering of
// distances matters, so the square root is skipped.
func (ps *PowerSpectrum) Compute(spectrum []complex128) []float64 {
	if len(spectrum) == 0 {
		return []float64{}
	}

	power := make([]float64, len(spectrum))
	for i, v := range spectrum {
		re := real(v)
		im := imag(v)
		power[i] = re*re + im*im
	}

	return power
}

// ComputeMagnitude computes true magnitudes sqrt(re^2 + im^2) per bin,
// used when spectra are handed out for plotting rather than classification
func (ps *PowerSpectrum) ComputeMagnitude(spectrum []complex128) []float64 {
	if len(spectrum) == 0 {
		return []float64{}
	}

	magnitudes := make([]float64, len(spectrum))
	for i, v := range spectrum {
		re := real(v)
		im := imag(v)
		magnitudes[i] = math.Sqrt(re*re + im*im)
	}

	return magnitudes
}
