package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-loudness/internal/testutil"
)

func newTestDecimator(t *testing.T, factor int) *Decimator {
	t.Helper()
	f := float64(factor)
	d, err := NewDecimator(factor, 0.4/f, 0.1/f, 70)
	require.NoError(t, err)
	return d
}

func TestNewDecimator_InvalidFactor(t *testing.T) {
	_, err := NewDecimator(1, 0.4, 0.1, 70)
	assert.Error(t, err)
}

func TestDecimator_FilterLength(t *testing.T) {
	assert.Equal(t, 87, newTestDecimator(t, 2).GetFilterLength())
	assert.Equal(t, 173, newTestDecimator(t, 4).GetFilterLength())
	assert.Equal(t, 43, newTestDecimator(t, 2).GetLatency())
	assert.InDelta(t, 0.25, newTestDecimator(t, 4).GetRatio(), 0)
}

func TestDecimator_OutputCount(t *testing.T) {
	for _, factor := range []int{2, 3, 4} {
		for _, chunk := range []int{1, 7, 480, 10000} {
			t.Run(fmt.Sprintf("f%d_chunk%d", factor, chunk), func(t *testing.T) {
				d := newTestDecimator(t, factor)
				const total = 9601
				out := processChunked(d.Process, make([]float64, total), chunk)
				assert.Len(t, out, (total+factor-1)/factor)
			})
		}
	}
}

func TestDecimator_ChunkInvariance(t *testing.T) {
	input := testutil.Sine(3000, 0.9, 192000, 20000)

	whole := newTestDecimator(t, 2)
	expected := append([]float64(nil), whole.Process(input)...)

	for _, chunk := range []int{1, 3, 481, 9600} {
		d := newTestDecimator(t, 2)
		actual := processChunked(d.Process, input, chunk)

		require.Len(t, actual, len(expected), "chunk %d", chunk)
		for i := range expected {
			assert.InDelta(t, expected[i], actual[i], 1e-12, "chunk %d sample %d", chunk, i)
		}
	}
}

func TestDecimator_Passband(t *testing.T) {
	d := newTestDecimator(t, 2)
	input := testutil.Sine(1000, 1.0, 192000, 96000)
	out := d.Process(input)

	// 0.5 s of output; skip the filter transient.
	assert.InDelta(t, rms(input[1000:]), rms(out[500:]), 1e-3)
}

func TestDecimator_Stopband(t *testing.T) {
	d := newTestDecimator(t, 2)
	input := testutil.Sine(70000, 1.0, 192000, 96000)
	out := d.Process(input)

	assert.Less(t, rms(out[500:]), 1e-3, "70 kHz must not alias into the decimated band")
}

func TestDecimator_Reset(t *testing.T) {
	input := testutil.Sine(440, 0.5, 192000, 1000)
	d := newTestDecimator(t, 2)

	first := append([]float64(nil), d.Process(input)...)
	d.Reset()
	second := d.Process(input)

	assert.Equal(t, first, second)
}
