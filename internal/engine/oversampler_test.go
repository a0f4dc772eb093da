package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-loudness/internal/testutil"
)

func TestNewOversampler_InvalidFactor(t *testing.T) {
	_, err := NewOversampler(0)
	assert.Error(t, err)
}

func TestOversampler_Passthrough(t *testing.T) {
	s, err := NewOversampler(1)
	require.NoError(t, err)

	input := []float64{0.1, -0.2, 0.3}
	assert.Equal(t, input, s.Process(input))
	assert.InDelta(t, 1.0, s.GetRatio(), 0)
}

func TestOversampler_OutputLength(t *testing.T) {
	for _, factor := range []int{2, 3, 4} {
		s, err := NewOversampler(factor)
		require.NoError(t, err)

		assert.Len(t, s.Process(make([]float64, 100)), 100*factor)
		assert.Len(t, s.Process(make([]float64, 1)), factor)
		assert.Empty(t, s.Process(nil))
		assert.Equal(t, truePeakTapsPerPhase*factor, s.GetFilterLength())
	}
}

func TestOversampler_ChunkInvariance(t *testing.T) {
	input := testutil.Sine(5000, 0.8, 48000, 4000)

	for _, factor := range []int{2, 4} {
		whole, err := NewOversampler(factor)
		require.NoError(t, err)
		chunked, err := NewOversampler(factor)
		require.NoError(t, err)

		expected := append([]float64(nil), whole.Process(input)...)
		actual := processChunked(chunked.Process, input, 37)

		require.Len(t, actual, len(expected))
		for i := range expected {
			assert.InDelta(t, expected[i], actual[i], 1e-12, "factor %d sample %d", factor, i)
		}
	}
}

func TestOversampler_UnityDCGain(t *testing.T) {
	s, err := NewOversampler(4)
	require.NoError(t, err)

	ones := make([]float64, 200)
	for i := range ones {
		ones[i] = 1
	}
	out := s.Process(ones)

	// Skip the priming transient.
	for i := truePeakTapsPerPhase * 4; i < len(out); i++ {
		assert.InDelta(t, 1.0, out[i], 1e-9, "sample %d", i)
	}
}

// A quarter-rate sine sampled 45° off its crests reads 0.707 per sample while
// the continuous waveform reaches 1.0.
func TestOversampler_RecoversInterSamplePeak(t *testing.T) {
	const n = 2000
	input := make([]float64, n)
	for i := range input {
		input[i] = math.Sin(math.Pi/2*float64(i) + math.Pi/4)
	}

	s, err := NewOversampler(4)
	require.NoError(t, err)
	out := s.Process(input)

	samplePeak := maxAbs(input[100:])
	interpPeak := maxAbs(out[400:])

	assert.InDelta(t, math.Sqrt2/2, samplePeak, 1e-9)
	assert.InDelta(t, 1.0, interpPeak, 0.05)
}

func TestOversampler_Reset(t *testing.T) {
	input := testutil.Sine(1000, 0.5, 48000, 500)

	s, err := NewOversampler(2)
	require.NoError(t, err)
	first := append([]float64(nil), s.Process(input)...)

	s.Reset()
	second := s.Process(input)

	require.Len(t, second, len(first))
	for i := range first {
		assert.InDelta(t, first[i], second[i], 1e-15)
	}
}
