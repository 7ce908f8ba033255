package pattern

import (
	"fmt"
	"time"

	"github.com/RyanBlaney/pattern-sonar/algorithms/common"
	"github.com/RyanBlaney/pattern-sonar/algorithms/spectral"
	"github.com/RyanBlaney/pattern-sonar/algorithms/trig"
	"github.com/RyanBlaney/pattern-sonar/logging"
	"github.com/RyanBlaney/pattern-sonar/pattern/config"
)

// ShortlistSize is the number of ranked candidates carried in a Result
const ShortlistSize = 5

// Result holds everything one classification pass produced: the recovered
// byte, the spectra it was recovered from, the ranked shortlist, and spectrum
// statistics for diagnostics. The presentation layer decides what to show.
type Result struct {
	Value       byte         `json:"value"`
	Bits        []byte       `json:"bits"`
	Spectrum    []complex128 `json:"-"`
	Power       []float64    `json:"power"`
	MinDistance float64      `json:"min_distance"`
	Shortlist   []Match      `json:"shortlist"`

	// Spectrum statistics
	PeakBin  int     `json:"peak_bin"`
	Centroid float64 `json:"centroid"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`

	Elapsed time.Duration `json:"elapsed"`
}

// Pipeline ties the stages together: replicate a received bit pattern,
// transform it on the classification grid, derive squared magnitudes, and
// match against the reference dictionary. The transport layer hands in bits;
// everything downstream of that is in-memory and synchronous.
type Pipeline struct {
	cfg        *config.Config
	dtft       *spectral.DTFT
	power      *spectral.PowerSpectrum
	worker     *spectral.Worker
	classifier *Classifier
	grid       []float64
	logger     logging.Logger
}

// NewPipeline builds a pipeline from a configuration and a reference
// dictionary. A nil dictionary is generated on the spot from cfg; a non-nil
// one must have been generated under the identical parameter tuple.
// When cfg.Parallel is set the split-range worker is started immediately and
// runs for the pipeline's lifetime; call Close to retire it.
func NewPipeline(cfg *config.Config, dict *Dictionary) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pattern: building pipeline: %w", err)
	}

	if dict == nil {
		generated, err := GenerateDictionary(cfg)
		if err != nil {
			return nil, err
		}
		dict = generated
	} else if !dict.Matches(cfg) {
		return nil, fmt.Errorf("%w: dictionary %+v, config %+v",
			ErrDictionaryParams, dict.Params(), paramsFromConfig(cfg))
	}

	table, err := trig.NewTable(cfg.TableSize)
	if err != nil {
		return nil, fmt.Errorf("pattern: building pipeline: %w", err)
	}

	p := &Pipeline{
		cfg:        cfg,
		dtft:       spectral.NewDTFTWithTable(table),
		power:      spectral.NewPowerSpectrum(),
		classifier: NewClassifier(dict),
		grid:       spectral.HalfTurnGrid(cfg.GridPoints),
		logger: logging.WithFields(logging.Fields{
			"component": "pattern_pipeline",
		}),
	}

	if cfg.Parallel {
		p.worker = spectral.NewWorker(p.dtft)
		p.worker.Start()
	}

	return p, nil
}

// Close retires the split-range worker if one is running. The pipeline stays
// usable afterwards; transforms simply run serially.
func (p *Pipeline) Close() {
	if p.worker != nil {
		p.worker.Stop()
		p.worker = nil
	}
}

// Config returns the pipeline configuration
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// Classifier returns the pipeline's classifier
func (p *Pipeline) Classifier() *Classifier {
	return p.classifier
}

// transform picks the serial or split-range path for a grid. The parallel
// hand-off has fixed dispatch overhead, so small grids always run serially
// no matter what the configuration enables.
func (p *Pipeline) transform(signal []byte, grid []float64) []complex128 {
	if p.worker != nil && len(grid) >= p.cfg.ParallelThreshold {
		return p.dtft.TransformParallel(signal, grid, p.worker)
	}
	return p.dtft.Transform(signal, grid)
}

// Process classifies one received bit pattern. The input must hold exactly
// PatternBits samples; each sample is taken as a small integer, with no
// validation that it is strictly 0 or 1.
func (p *Pipeline) Process(bits []byte) (*Result, error) {
	if len(bits) != p.cfg.PatternBits {
		return nil, fmt.Errorf("pattern: got %d bits, want %d", len(bits), p.cfg.PatternBits)
	}

	start := time.Now()

	signal := Repeat(bits, p.cfg.Repetitions)
	p.logger.Debug("signal buffer assembled", logging.Fields{
		"pattern_bits": len(bits),
		"repetitions":  p.cfg.Repetitions,
		"samples":      len(signal),
	})

	spectrum := p.transform(signal, p.grid)
	power := p.power.Compute(spectrum)

	value, minDistance, err := p.classifier.ClassifyWithDistance(power)
	if err != nil {
		return nil, err
	}

	shortlist, err := p.classifier.Rank(power, ShortlistSize)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Value:       value,
		Bits:        bits,
		Spectrum:    spectrum,
		Power:       power,
		MinDistance: minDistance,
		Shortlist:   shortlist,
		PeakBin:     common.PeakBin(power),
		Centroid:    common.SpectralCentroid(power, p.grid),
		Mean:        common.Mean(power),
		StdDev:      common.StandardDeviation(power),
		Elapsed:     time.Since(start),
	}

	p.logger.Debug("pattern classified", logging.Fields{
		"value":        fmt.Sprintf("0x%02X", value),
		"min_distance": minDistance,
		"elapsed_us":   result.Elapsed.Microseconds(),
	})

	return result, nil
}

// ProcessByte expands a byte into its MSB-first bit pattern and classifies
// it. This is the loopback path: simulate a transmission, then recover it.
func (p *Pipeline) ProcessByte(value byte) (*Result, error) {
	return p.Process(BitsOf(value, p.cfg.PatternBits))
}

// Spectrum evaluates a full-turn spectrum of the replicated pattern for
// external plotting. The grid size is the caller's: generic analysis commonly
// uses more points than the classification grid, which is where the parallel
// split starts to pay off.
func (p *Pipeline) Spectrum(bits []byte, points int) ([]complex128, error) {
	if len(bits) != p.cfg.PatternBits {
		return nil, fmt.Errorf("pattern: got %d bits, want %d", len(bits), p.cfg.PatternBits)
	}
	if points < 0 {
		points = 0
	}

	signal := Repeat(bits, p.cfg.Repetitions)
	return p.transform(signal, spectral.FullTurnGrid(points)), nil
}
