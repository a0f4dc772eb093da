package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-audio-loudness/internal/testutil"
)

func TestBiquad_BlockMatchesSampleBySample(t *testing.T) {
	c := KWeighting(48000).Shelf
	input := testutil.Sine(1000, 0.5, 48000, 1000)

	perSample := NewBiquad(c)
	expected := make([]float64, len(input))
	for i, x := range input {
		expected[i] = perSample.ProcessSample(x)
	}

	block := NewBiquad(c)
	got := append([]float64(nil), input...)
	block.ProcessInPlace(got[:333])
	block.ProcessInPlace(got[333:])

	for i := range expected {
		assert.InDelta(t, expected[i], got[i], 1e-15, "sample %d", i)
	}
}

func TestBiquad_Reset(t *testing.T) {
	b := NewBiquad(KWeighting(48000).HighPass)
	first := b.ProcessSample(1.0)
	b.ProcessSample(0.3)

	b.Reset()
	assert.Equal(t, first, b.ProcessSample(1.0))
}

func TestBiquad_SilentTailFlushesToZero(t *testing.T) {
	b := NewBiquad(KWeighting(48000).HighPass)
	b.ProcessInPlace([]float64{1, 0, 0})

	silence := make([]float64, 200000)
	b.ProcessInPlace(silence)
	b.ProcessInPlace(silence)

	assert.Zero(t, b.ProcessSample(0))
}
