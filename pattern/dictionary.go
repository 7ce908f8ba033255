package pattern

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/pattern-sonar/algorithms/spectral"
	"github.com/RyanBlaney/pattern-sonar/algorithms/trig"
	"github.com/RyanBlaney/pattern-sonar/pattern/config"
)

// DictionaryEntries is the number of reference spectra: one per byte value
const DictionaryEntries = 256

// ErrDictionaryParams reports a dictionary whose generation parameters do not
// match the runtime configuration. Matching against such a dictionary would
// not fail loudly - it would just return wrong bytes - so the mismatch is
// rejected at load time.
var ErrDictionaryParams = errors.New("pattern: dictionary parameters do not match configuration")

// DictionaryParams records the pipeline tuple a dictionary was generated
// under. Runtime classification must use the identical tuple.
type DictionaryParams struct {
	PatternBits int `json:"pattern_bits" yaml:"pattern_bits"`
	Repetitions int `json:"repetitions" yaml:"repetitions"`
	GridPoints  int `json:"grid_points" yaml:"grid_points"`
	TableSize   int `json:"table_size" yaml:"table_size"`
}

func paramsFromConfig(cfg *config.Config) DictionaryParams {
	return DictionaryParams{
		PatternBits: cfg.PatternBits,
		Repetitions: cfg.Repetitions,
		GridPoints:  cfg.GridPoints,
		TableSize:   cfg.TableSize,
	}
}

// Dictionary is the immutable set of reference spectra used as classification
// ground truth: for each byte value, the squared-magnitude spectrum produced
// by the exact replicate -> transform -> power pipeline the runtime path
// runs. Read-only after construction; safe for concurrent readers.
type Dictionary struct {
	params  DictionaryParams
	entries [][]float64
}

// dictionaryFile is the on-disk YAML layout
type dictionaryFile struct {
	DictionaryParams `yaml:",inline"`
	Entries          [][]float64 `yaml:"entries"`
}

// GenerateDictionary builds the 256-entry reference dictionary by running the
// classification pipeline offline for every byte value under cfg
func GenerateDictionary(cfg *config.Config) (*Dictionary, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pattern: generating dictionary: %w", err)
	}

	table, err := trig.NewTable(cfg.TableSize)
	if err != nil {
		return nil, fmt.Errorf("pattern: generating dictionary: %w", err)
	}

	dtft := spectral.NewDTFTWithTable(table)
	power := spectral.NewPowerSpectrum()
	grid := spectral.HalfTurnGrid(cfg.GridPoints)

	entries := make([][]float64, DictionaryEntries)
	for value := 0; value < DictionaryEntries; value++ {
		signal := Repeat(BitsOf(byte(value), cfg.PatternBits), cfg.Repetitions)
		entries[value] = power.Compute(dtft.Transform(signal, grid))
	}

	return &Dictionary{
		params:  paramsFromConfig(cfg),
		entries: entries,
	}, nil
}

// Params returns the generation parameters the dictionary was built under
func (d *Dictionary) Params() DictionaryParams {
	return d.params
}

// Points returns the number of frequency bins per entry
func (d *Dictionary) Points() int {
	return d.params.GridPoints
}

// Entry returns the reference spectrum for a byte value. The returned slice
// is shared dictionary data; callers must not modify it.
func (d *Dictionary) Entry(value byte) []float64 {
	return d.entries[value]
}

// Matches reports whether the dictionary was generated under the same
// pipeline tuple as cfg
func (d *Dictionary) Matches(cfg *config.Config) bool {
	return d.params == paramsFromConfig(cfg)
}

// Save writes the dictionary, parameters included, as YAML
func (d *Dictionary) Save(path string) error {
	file := dictionaryFile{
		DictionaryParams: d.params,
		Entries:          d.entries,
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("pattern: encoding dictionary: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("pattern: writing dictionary: %w", err)
	}
	return nil
}

// LoadDictionary reads a dictionary from YAML and verifies it against cfg.
// A parameter mismatch or a malformed entry table is an error: the parameter
// equivalence between offline generation and runtime evaluation is the
// contract the whole classifier rests on.
func LoadDictionary(path string, cfg *config.Config) (*Dictionary, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pattern: reading dictionary: %w", err)
	}

	var file dictionaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("pattern: decoding dictionary: %w", err)
	}

	if file.DictionaryParams != paramsFromConfig(cfg) {
		return nil, fmt.Errorf("%w: dictionary %+v, config %+v",
			ErrDictionaryParams, file.DictionaryParams, paramsFromConfig(cfg))
	}

	if len(file.Entries) != DictionaryEntries {
		return nil, fmt.Errorf("pattern: dictionary has %d entries, want %d",
			len(file.Entries), DictionaryEntries)
	}
	for value, entry := range file.Entries {
		if len(entry) != file.GridPoints {
			return nil, fmt.Errorf("pattern: dictionary entry 0x%02X has %d points, want %d",
				value, len(entry), file.GridPoints)
		}
		for i, p := range entry {
			if p < 0 {
				return nil, fmt.Errorf("pattern: dictionary entry 0x%02X bin %d is negative", value, i)
			}
		}
	}

	return &Dictionary{
		params:  file.DictionaryParams,
		entries: file.Entries,
	}, nil
}
