package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/pattern-sonar/algorithms/common"
	"github.com/RyanBlaney/pattern-sonar/algorithms/spectral"
	"github.com/RyanBlaney/pattern-sonar/pattern"
)

var spectrumPoints int

var spectrumCmd = &cobra.Command{
	Use:   "spectrum <byte>",
	Short: "Print the full-turn spectrum of a byte's bit pattern",
	Long: `Expand a byte into its replicated bit pattern and evaluate its DTFT on a
full-turn grid. The output is one line per bin (frequency, real, imaginary,
magnitude), suitable for feeding external plotting tools; no rendering
happens here.`,
	Args: cobra.ExactArgs(1),
	RunE: runSpectrum,
}

func init() {
	spectrumCmd.Flags().IntVarP(&spectrumPoints, "points", "p", 128,
		"number of frequency points over the full turn")
	rootCmd.AddCommand(spectrumCmd)
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	value, err := parseByteValue(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pipeline, err := pattern.NewPipeline(cfg, nil)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	bits := pattern.BitsOf(value, cfg.PatternBits)
	spectrum, err := pipeline.Spectrum(bits, spectrumPoints)
	if err != nil {
		return err
	}

	power := spectral.NewPowerSpectrum()
	magnitudes := power.ComputeMagnitude(spectrum)
	grid := spectral.FullTurnGrid(spectrumPoints)

	fmt.Printf("# byte 0x%02X (%s), %d samples, %d points\n",
		value, formatBits(bits), cfg.SignalLength(), spectrumPoints)
	fmt.Println("# bin omega real imag magnitude")
	for k, v := range spectrum {
		fmt.Printf("%d %.6f %.6f %.6f %.6f\n", k, grid[k], real(v), imag(v), magnitudes[k])
	}

	if len(magnitudes) == 0 {
		return nil
	}

	peak := common.PeakBin(magnitudes)
	fmt.Printf("# peak: bin %d (omega %.6f, %.4f pi), magnitude %.6f\n",
		peak, grid[peak], grid[peak]/math.Pi, magnitudes[peak])
	fmt.Printf("# centroid: %.6f rad/sample\n", common.SpectralCentroid(magnitudes, grid))
	fmt.Printf("# mean: %.6f, std dev: %.6f\n",
		common.Mean(magnitudes), common.StandardDeviation(magnitudes))

	return nil
}
