package trig

import (
	"fmt"
	"math"
	"sync"
)

// DefaultTableSize is the lookup table length used when no explicit size is
// configured. 1024 entries with linear interpolation keeps the worst-case
// error small enough for spectra accumulated over hundreds of samples.
const DefaultTableSize = 1024

// Table holds precomputed sine and cosine values covering one full turn.
// The table is write-once: after construction it is safe for any number of
// concurrent readers.
type Table struct {
	size  int
	mask  int
	scale float64
	sin   []float64
	cos   []float64
}

// NewTable builds a sine/cosine lookup table with the given number of entries.
// The size must be a power of two so that index folding reduces to a bit mask.
func NewTable(size int) (*Table, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("trig: table size %d is not a power of two", size)
	}

	t := &Table{
		size:  size,
		mask:  size - 1,
		scale: float64(size) / (2 * math.Pi),
		sin:   make([]float64, size),
		cos:   make([]float64, size),
	}

	for i := 0; i < size; i++ {
		angle := (2 * math.Pi * float64(i)) / float64(size)
		t.sin[i] = math.Sin(angle)
		t.cos[i] = math.Cos(angle)
	}

	return t, nil
}

// Size returns the number of table entries
func (t *Table) Size() int {
	return t.size
}

// Step returns the angular spacing between adjacent table entries
func (t *Table) Step() float64 {
	return (2 * math.Pi) / float64(t.size)
}

// Sin approximates sin(angle) by linear interpolation between the two
// neighboring table entries. Any angle is accepted: scaling by size/2π and
// masking folds arbitrary positive or negative angles into range
// (two's-complement & gives the modulo for power-of-two sizes). The index
// must come from the floor of the scaled angle, not a truncation: floor keeps
// the fraction in [0, 1) for negative angles too, so the output stays
// continuous across every entry boundary.
func (t *Table) Sin(angle float64) float64 {
	scaled := angle * t.scale
	base := math.Floor(scaled)
	frac := scaled - base
	i := int(base) & t.mask
	next := (i + 1) & t.mask
	return t.sin[i] + frac*(t.sin[next]-t.sin[i])
}

// Cos approximates cos(angle) the same way Sin does
func (t *Table) Cos(angle float64) float64 {
	scaled := angle * t.scale
	base := math.Floor(scaled)
	frac := scaled - base
	i := int(base) & t.mask
	next := (i + 1) & t.mask
	return t.cos[i] + frac*(t.cos[next]-t.cos[i])
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the shared table of DefaultTableSize entries, building it
// on first use. Every component that does not carry an explicit table reads
// from this one.
func Default() *Table {
	defaultTableOnce.Do(func() {
		t, err := NewTable(DefaultTableSize)
		if err != nil {
			// DefaultTableSize is a power of two; this cannot happen
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}
