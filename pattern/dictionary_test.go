package pattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/pattern-sonar/pattern/config"
)

func TestGenerateDictionary_Shape(t *testing.T) {
	cfg := config.Default()
	dict, err := GenerateDictionary(cfg)
	require.NoError(t, err)

	assert.Equal(t, 41, dict.Points())
	assert.Equal(t, paramsFromConfig(cfg), dict.Params())
	assert.True(t, dict.Matches(cfg))

	for v := 0; v < DictionaryEntries; v++ {
		entry := dict.Entry(byte(v))
		require.Len(t, entry, 41, "value 0x%02X", v)
		for k, p := range entry {
			assert.GreaterOrEqual(t, p, 0.0, "value 0x%02X bin %d", v, k)
		}
	}
}

func TestGenerateDictionary_ZeroByteHasNoEnergy(t *testing.T) {
	dict, err := GenerateDictionary(config.Default())
	require.NoError(t, err)

	// The all-zero pattern transforms to a uniformly zero spectrum
	for k, p := range dict.Entry(0x00) {
		assert.InDelta(t, 0.0, p, 1e-12, "bin %d", k)
	}

	// Any nonzero pattern has energy somewhere
	nonzero := 0.0
	for _, p := range dict.Entry(0x01) {
		nonzero += p
	}
	assert.Greater(t, nonzero, 1.0)
}

func TestGenerateDictionary_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.TableSize = 1000

	_, err := GenerateDictionary(cfg)
	assert.Error(t, err)
}

func TestDictionary_SaveLoadRoundTrip(t *testing.T) {
	cfg := config.Default()
	dict, err := GenerateDictionary(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dictionary.yaml")
	require.NoError(t, dict.Save(path))

	loaded, err := LoadDictionary(path, cfg)
	require.NoError(t, err)

	assert.Equal(t, dict.Params(), loaded.Params())
	for v := 0; v < DictionaryEntries; v++ {
		assert.Equal(t, dict.Entry(byte(v)), loaded.Entry(byte(v)), "value 0x%02X", v)
	}
}

func TestLoadDictionary_RejectsParameterMismatch(t *testing.T) {
	cfg := config.Default()
	dict, err := GenerateDictionary(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dictionary.yaml")
	require.NoError(t, dict.Save(path))

	other := config.Default()
	other.Repetitions = 8

	_, err = LoadDictionary(path, other)
	assert.ErrorIs(t, err, ErrDictionaryParams)
}

func TestLoadDictionary_RejectsMalformedFiles(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "does-not-exist.yaml")
	_, err := LoadDictionary(missing, config.Default())
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.yaml")
	require.NoError(t, os.WriteFile(garbage, []byte("{ unclosed: ["), 0o644))
	_, err = LoadDictionary(garbage, config.Default())
	assert.Error(t, err)

	// Right parameters, wrong entry count
	truncated := filepath.Join(dir, "truncated.yaml")
	require.NoError(t, os.WriteFile(truncated, []byte(
		"pattern_bits: 8\nrepetitions: 10\ngrid_points: 41\ntable_size: 1024\nentries:\n  - [1.0]\n"), 0o644))
	_, err = LoadDictionary(truncated, config.Default())
	assert.Error(t, err)
}
