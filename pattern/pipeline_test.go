package pattern

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/RyanBlaney/pattern-sonar/pattern/config"
)

// PipelineTestSuite exercises the full replicate -> transform -> classify path
type PipelineTestSuite struct {
	suite.Suite
	cfg      *config.Config
	pipeline *Pipeline
}

func (s *PipelineTestSuite) SetupSuite() {
	s.cfg = config.Default()

	pipeline, err := NewPipeline(s.cfg, nil)
	s.Require().NoError(err)
	s.pipeline = pipeline
}

func (s *PipelineTestSuite) TearDownSuite() {
	s.pipeline.Close()
}

func (s *PipelineTestSuite) TestRoundTrip0x4F() {
	result, err := s.pipeline.ProcessByte(0x4F)
	s.Require().NoError(err)

	s.Equal(byte(0x4F), result.Value)
	s.InDelta(0.0, result.MinDistance, 1e-12, "self transmission matches its own reference exactly")
	s.Equal([]byte{0, 1, 0, 0, 1, 1, 1, 1}, result.Bits)
	s.Len(result.Power, s.cfg.GridPoints)
	s.Len(result.Spectrum, s.cfg.GridPoints)
}

func (s *PipelineTestSuite) TestZeroByteClassifiesToZero() {
	result, err := s.pipeline.Process(make([]byte, 8))
	s.Require().NoError(err)

	s.Equal(byte(0x00), result.Value)
	for k, p := range result.Power {
		s.InDelta(0.0, p, 1e-12, "bin %d", k)
	}
}

func (s *PipelineTestSuite) TestAllBytesRoundTrip() {
	for v := 0; v < 256; v++ {
		result, err := s.pipeline.ProcessByte(byte(v))
		s.Require().NoError(err)
		s.Equal(byte(v), result.Value, "byte 0x%02X failed the round trip", v)
	}
}

func (s *PipelineTestSuite) TestRejectsWrongBitCount() {
	_, err := s.pipeline.Process([]byte{1, 0, 1})
	s.Error(err)

	_, err = s.pipeline.Process(nil)
	s.Error(err)
}

func (s *PipelineTestSuite) TestShortlist() {
	result, err := s.pipeline.ProcessByte(0xA7)
	s.Require().NoError(err)

	s.Require().Len(result.Shortlist, ShortlistSize)
	s.Equal(byte(0xA7), result.Shortlist[0].Value)
	for i := 1; i < len(result.Shortlist); i++ {
		s.GreaterOrEqual(result.Shortlist[i].Distance, result.Shortlist[i-1].Distance)
	}
}

func (s *PipelineTestSuite) TestResultStatistics() {
	result, err := s.pipeline.ProcessByte(0x55) // alternating bits
	s.Require().NoError(err)

	s.GreaterOrEqual(result.PeakBin, 0)
	s.Less(result.PeakBin, s.cfg.GridPoints)
	s.Greater(result.Mean, 0.0)
	s.GreaterOrEqual(result.Centroid, 0.0)
	s.LessOrEqual(result.Centroid, math.Pi)
	s.Greater(result.Elapsed.Nanoseconds(), int64(0))
}

func (s *PipelineTestSuite) TestSpectrumConjugateSymmetry() {
	// The input is real-valued, so the full-turn spectrum must satisfy
	// X(2pi - w) = conj(X(w)) up to lookup-table error.
	const points = 128
	spectrum, err := s.pipeline.Spectrum(BitsOf(0x4F, 8), points)
	s.Require().NoError(err)
	s.Require().Len(spectrum, points)

	for k := 1; k < points/2; k++ {
		mirror := spectrum[points-k]
		s.InDelta(real(spectrum[k]), real(mirror), 1e-2, "bin %d real", k)
		s.InDelta(imag(spectrum[k]), -imag(mirror), 1e-2, "bin %d imag", k)
	}
}

func (s *PipelineTestSuite) TestSpectrumEdgeCases() {
	empty, err := s.pipeline.Spectrum(BitsOf(0x12, 8), 0)
	s.Require().NoError(err)
	s.Empty(empty)

	_, err = s.pipeline.Spectrum([]byte{1}, 64)
	s.Error(err)
}

func TestPipelineTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func TestNewPipeline_RejectsMismatchedDictionary(t *testing.T) {
	other := config.Default()
	other.GridPoints = 21
	dict, err := GenerateDictionary(other)
	require.NoError(t, err)

	_, err = NewPipeline(config.Default(), dict)
	assert.ErrorIs(t, err, ErrDictionaryParams)
}

func TestNewPipeline_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Repetitions = 0

	_, err := NewPipeline(cfg, nil)
	assert.Error(t, err)
}

func TestPipeline_ParallelAndSerialAgree(t *testing.T) {
	serialCfg := config.Default()
	serialCfg.Parallel = false

	parallelCfg := config.Default()
	parallelCfg.Parallel = true
	parallelCfg.ParallelThreshold = 2 // force the split even on the 41-point grid

	serial, err := NewPipeline(serialCfg, nil)
	require.NoError(t, err)
	defer serial.Close()

	parallel, err := NewPipeline(parallelCfg, nil)
	require.NoError(t, err)
	defer parallel.Close()

	for _, v := range []byte{0x00, 0x01, 0x4F, 0x80, 0xFF} {
		serialResult, err := serial.ProcessByte(v)
		require.NoError(t, err)
		parallelResult, err := parallel.ProcessByte(v)
		require.NoError(t, err)

		assert.Equal(t, serialResult.Value, parallelResult.Value, "byte 0x%02X", v)
		require.Len(t, parallelResult.Power, len(serialResult.Power))
		for k := range serialResult.Power {
			assert.InDelta(t, serialResult.Power[k], parallelResult.Power[k], 1e-12,
				"byte 0x%02X bin %d", v, k)
		}
	}
}

func TestPipeline_CloseFallsBackToSerial(t *testing.T) {
	cfg := config.Default()
	cfg.Parallel = true
	cfg.ParallelThreshold = 2

	pipeline, err := NewPipeline(cfg, nil)
	require.NoError(t, err)

	before, err := pipeline.ProcessByte(0x4F)
	require.NoError(t, err)

	pipeline.Close()

	after, err := pipeline.ProcessByte(0x4F)
	require.NoError(t, err)
	assert.Equal(t, before.Value, after.Value)
}

func TestProcess_AcceptsNonBinarySamples(t *testing.T) {
	// The engine performs no validation that samples are strictly 0/1; any
	// small integer is used arithmetically.
	pipeline, err := NewPipeline(config.Default(), nil)
	require.NoError(t, err)
	defer pipeline.Close()

	result, err := pipeline.Process([]byte{2, 0, 3, 0, 1, 0, 0, 0})
	require.NoError(t, err)
	assert.NotNil(t, result)
}
