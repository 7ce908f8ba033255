package config

import (
	"fmt"
)

// Config holds the pipeline parameters shared by runtime classification and
// offline dictionary generation. The classifier depends on both sides using
// the exact same tuple: a dictionary generated under different parameters
// silently invalidates every match, so the values live in one place and are
// checked when a dictionary is loaded.
type Config struct {
	// Signal construction
	PatternBits int `json:"pattern_bits" yaml:"pattern_bits" mapstructure:"pattern_bits"`
	Repetitions int `json:"repetitions" yaml:"repetitions" mapstructure:"repetitions"`

	// Classification grid: GridPoints frequencies over 0..pi
	GridPoints int `json:"grid_points" yaml:"grid_points" mapstructure:"grid_points"`

	// Trig lookup table length (power of two)
	TableSize int `json:"table_size" yaml:"table_size" mapstructure:"table_size"`

	// Parallel transform settings. The split-range transform only pays off
	// once the grid is large; grids below the threshold always run serially.
	Parallel          bool `json:"parallel" yaml:"parallel" mapstructure:"parallel"`
	ParallelThreshold int  `json:"parallel_threshold" yaml:"parallel_threshold" mapstructure:"parallel_threshold"`
}

// Default returns the canonical configuration: 8-bit patterns repeated 10
// times (an 80-sample buffer) evaluated on a 41-point half-turn grid with
// spacing pi/40
func Default() *Config {
	return &Config{
		PatternBits:       8,
		Repetitions:       10,
		GridPoints:        41,
		TableSize:         1024,
		Parallel:          true,
		ParallelThreshold: 128,
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.PatternBits < 1 || c.PatternBits > 8 {
		return fmt.Errorf("config: pattern_bits must be in [1, 8], got %d", c.PatternBits)
	}
	if c.Repetitions < 1 {
		return fmt.Errorf("config: repetitions must be positive, got %d", c.Repetitions)
	}
	if c.GridPoints < 1 {
		return fmt.Errorf("config: grid_points must be positive, got %d", c.GridPoints)
	}
	if c.TableSize < 2 || c.TableSize&(c.TableSize-1) != 0 {
		return fmt.Errorf("config: table_size must be a power of two, got %d", c.TableSize)
	}
	if c.Parallel && c.ParallelThreshold < 2 {
		return fmt.Errorf("config: parallel_threshold must be at least 2, got %d", c.ParallelThreshold)
	}
	return nil
}

// SignalLength returns the replicated sample buffer length
func (c *Config) SignalLength() int {
	return c.PatternBits * c.Repetitions
}
