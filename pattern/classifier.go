package pattern

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RyanBlaney/pattern-sonar/algorithms/stats"
)

// ErrSpectrumLength reports a spectrum whose bin count does not match the
// dictionary. Classification never truncates or pads; the caller handed in a
// spectrum produced under the wrong grid.
var ErrSpectrumLength = errors.New("pattern: spectrum length does not match dictionary")

// Match pairs a candidate byte value with its distance to the input spectrum
type Match struct {
	Value    byte    `json:"value"`
	Distance float64 `json:"distance"`
}

// Classifier recovers byte values from squared-magnitude spectra by
// nearest-neighbor search over the reference dictionary. It holds no mutable
// state; concurrent calls are safe as long as the dictionary stays read-only,
// which it always is after construction.
type Classifier struct {
	dict *Dictionary
}

// NewClassifier creates a classifier over a reference dictionary
func NewClassifier(dict *Dictionary) *Classifier {
	return &Classifier{dict: dict}
}

// Dictionary returns the reference dictionary the classifier matches against
func (c *Classifier) Dictionary() *Dictionary {
	return c.dict
}

func (c *Classifier) checkLength(power []float64) error {
	if len(power) != c.dict.Points() {
		return fmt.Errorf("%w: got %d bins, want %d", ErrSpectrumLength, len(power), c.dict.Points())
	}
	return nil
}

// Classify returns the byte value whose reference spectrum is closest to the
// input by squared Euclidean distance. Ties resolve to the lowest byte value:
// the scan uses a strict less-than, so the first candidate seen wins.
func (c *Classifier) Classify(power []float64) (byte, error) {
	value, _, err := c.ClassifyWithDistance(power)
	return value, err
}

// ClassifyWithDistance is Classify also reporting the winning distance
func (c *Classifier) ClassifyWithDistance(power []float64) (byte, float64, error) {
	if err := c.checkLength(power); err != nil {
		return 0, 0, err
	}

	best := byte(0)
	minDistance := stats.SquaredEuclideanDistance(power, c.dict.Entry(0))

	for value := 1; value < DictionaryEntries; value++ {
		distance := stats.SquaredEuclideanDistance(power, c.dict.Entry(byte(value)))
		if distance < minDistance {
			minDistance = distance
			best = byte(value)
		}
	}

	return best, minDistance, nil
}

// Rank computes the distance to every dictionary entry and returns the k
// closest, ordered by ascending distance with ties broken by ascending byte
// value. Used for diagnostics (top-5 shortlists), not for the primary
// classification path.
func (c *Classifier) Rank(power []float64, k int) ([]Match, error) {
	if err := c.checkLength(power); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []Match{}, nil
	}
	if k > DictionaryEntries {
		k = DictionaryEntries
	}

	matches := make([]Match, DictionaryEntries)
	for value := 0; value < DictionaryEntries; value++ {
		matches[value] = Match{
			Value:    byte(value),
			Distance: stats.SquaredEuclideanDistance(power, c.dict.Entry(byte(value))),
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Value < matches[j].Value
	})

	return matches[:k], nil
}
