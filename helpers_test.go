package loudness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-loudness/internal/testutil"
)

func newTestMeter(t *testing.T, channels int, rate float64, mode Mode) *Meter {
	t.Helper()
	m, err := New(&Config{Channels: channels, SampleRate: rate, Mode: mode})
	require.NoError(t, err)
	return m
}

// tone returns seconds of a 1 kHz sine at dbfs peak level.
func tone(rate, dbfs, seconds float64) []float64 {
	return testutil.SineDB(1000, dbfs, rate, int(rate*seconds))
}

// feed pushes channels through m in chunks of size frames.
func feed(t *testing.T, m *Meter, channels [][]float64, size int) {
	t.Helper()
	for _, chunk := range testutil.Chunks(channels, size) {
		require.NoError(t, m.AddFrames(chunk))
	}
}

// alternating returns total seconds of tone switching between two levels every
// period seconds.
func alternating(rate, levelA, levelB, period, total float64) []float64 {
	var out []float64
	for i := 0; float64(i)*period < total; i++ {
		level := levelA
		if i%2 == 1 {
			level = levelB
		}
		out = append(out, tone(rate, level, period)...)
	}
	return out
}

// energyOf converts LUFS to a block energy.
func energyOf(lufs float64) float64 {
	return math.Pow(10, (lufs+0.691)/10)
}
