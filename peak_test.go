package loudness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-loudness/internal/testutil"
)

func TestSamplePeak_Monotone(t *testing.T) {
	m := newTestMeter(t, 1, 48000, ModeSamplePeak)

	levels := []float64{0.2, 0.5, 0.3, 0.9, 0.1}
	var last float64
	for _, level := range levels {
		require.NoError(t, m.AddFrames([][]float64{testutil.Sine(1000, level, 48000, 480)}))

		peak, err := m.SamplePeak(0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, peak, last)
		last = peak

		prev, err := m.PrevSamplePeak(0)
		require.NoError(t, err)
		assert.LessOrEqual(t, prev, level+1e-12)
		assert.Greater(t, prev, 0.9*level)
	}

	assert.InDelta(t, 0.9, last, 0.01)
}

func TestTruePeak_NotBelowSamplePeak(t *testing.T) {
	for _, rate := range []float64{8000, 44100, 48000, 88200, 96000, 192000, 384000} {
		m := newTestMeter(t, 2, rate, ModeSamplePeak|ModeTruePeak)
		signal := [][]float64{
			testutil.Sine(rate/4.1, 0.8, rate, int(rate/2)),
			testutil.Sine(997, 0.5, rate, int(rate/2)),
		}
		feed(t, m, signal, 1000)

		for ch := range 2 {
			sp, err := m.SamplePeak(ch)
			require.NoError(t, err)
			tp, err := m.TruePeak(ch)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, tp, sp, "rate %.0f channel %d", rate, ch)

			psp, err := m.PrevSamplePeak(ch)
			require.NoError(t, err)
			ptp, err := m.PrevTruePeak(ch)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, ptp, psp, "rate %.0f channel %d", rate, ch)
		}
	}
}

func TestTruePeak_InterSample(t *testing.T) {
	input := make([]float64, 48000)
	for i := range input {
		input[i] = math.Sin(math.Pi/2*float64(i) + math.Pi/4)
	}

	m := newTestMeter(t, 1, 48000, ModeTruePeak|ModeSamplePeak)
	require.NoError(t, m.AddFrames([][]float64{input}))

	sp, err := m.SamplePeak(0)
	require.NoError(t, err)
	tp, err := m.TruePeak(0)
	require.NoError(t, err)

	assert.InDelta(t, -3.01, AmplitudeToDB(sp), 0.01)
	assert.InDelta(t, 0.0, AmplitudeToDB(tp), 0.5)
	assert.Equal(t, 4, m.TruePeakFactor())
}

func TestPeak_Errors(t *testing.T) {
	m := newTestMeter(t, 2, 48000, ModeSamplePeak)

	_, err := m.SamplePeak(2)
	assert.ErrorIs(t, err, ErrInvalidChannelIndex)
	_, err = m.SamplePeak(-1)
	assert.ErrorIs(t, err, ErrInvalidChannelIndex)
	_, err = m.TruePeak(5)
	assert.ErrorIs(t, err, ErrInvalidChannelIndex)

	_, err = m.TruePeak(0)
	assert.ErrorIs(t, err, ErrInvalidMode)
	_, err = m.PrevTruePeak(0)
	assert.ErrorIs(t, err, ErrInvalidMode)

	noPeaks := newTestMeter(t, 1, 48000, ModeIntegrated)
	_, err = noPeaks.SamplePeak(0)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestPeak_Empty(t *testing.T) {
	m := newTestMeter(t, 1, 48000, ModeSamplePeak|ModeTruePeak)

	sp, err := m.SamplePeak(0)
	require.NoError(t, err)
	assert.Zero(t, sp)
	testutil.AssertSilent(t, AmplitudeToDB(sp))
}

func TestAmplitudeToDB(t *testing.T) {
	assert.InDelta(t, 0.0, AmplitudeToDB(1.0), 1e-12)
	assert.InDelta(t, -6.0206, AmplitudeToDB(0.5), 1e-4)
	assert.True(t, math.IsInf(AmplitudeToDB(0), -1))
}
