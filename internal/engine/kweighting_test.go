package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-loudness/internal/testutil"
)

func TestKWeightingStage_DoesNotModifyInput(t *testing.T) {
	s := NewKWeightingStage(48000)
	input := testutil.Sine(1000, 0.5, 48000, 256)
	original := append([]float64(nil), input...)

	out := s.Process(input)

	assert.Equal(t, original, input)
	assert.Len(t, out, len(input))
}

func TestKWeightingStage_GainAt997Hz(t *testing.T) {
	for _, rate := range []float64{44100, 48000, 96000} {
		s := NewKWeightingStage(rate)
		input := testutil.Sine(997, 0.5, rate, int(rate))
		out := s.Process(input)

		skip := int(rate / 10)
		gainDB := 20 * math.Log10(rms(out[skip:])/rms(input[skip:]))
		assert.InDelta(t, 0.691, gainDB, 0.02, "rate %.0f", rate)
	}
}

func TestKWeightingStage_RejectsDC(t *testing.T) {
	s := NewKWeightingStage(48000)
	dc := make([]float64, 48000)
	for i := range dc {
		dc[i] = 1
	}
	out := s.Process(dc)
	assert.Less(t, math.Abs(out[len(out)-1]), 1e-3)
}

func TestKWeightingStage_ChunkInvariance(t *testing.T) {
	input := testutil.Sine(2500, 0.7, 48000, 10000)

	whole := NewKWeightingStage(48000)
	expected := append([]float64(nil), whole.Process(input)...)

	chunked := NewKWeightingStage(48000)
	actual := processChunked(chunked.Process, input, 333)

	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], 1e-12)
	}
}

func TestKWeightingStage_Reset(t *testing.T) {
	input := testutil.Sine(100, 0.7, 48000, 1000)
	s := NewKWeightingStage(48000)

	first := append([]float64(nil), s.Process(input)...)
	s.Reset()
	assert.Equal(t, first, s.Process(input))
}

func TestKWeightingStage_Metadata(t *testing.T) {
	s := NewKWeightingStage(44100)
	assert.InDelta(t, 44100, s.Coefficients().SampleRate, 0)
	assert.InDelta(t, 1.0, s.GetRatio(), 0)
	assert.Zero(t, s.GetLatency())
	assert.Equal(t, 2, s.GetFilterLength())
}
