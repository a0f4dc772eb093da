package loudness

import (
	"fmt"
	"testing"

	"github.com/tphakala/go-audio-loudness/internal/testutil"
)

// BenchmarkAddFrames compares sequential and parallel channel processing.
func BenchmarkAddFrames(b *testing.B) {
	const (
		rate      = 48000.0
		chunkSize = 4800
	)

	for _, channels := range []int{1, 2, 6} {
		for _, parallel := range []bool{false, true} {
			name := fmt.Sprintf("ch%d/parallel=%v", channels, parallel)
			b.Run(name, func(b *testing.B) {
				m, err := New(&Config{
					Channels:       channels,
					SampleRate:     rate,
					Mode:           ModeAll,
					EnableParallel: parallel,
				})
				if err != nil {
					b.Fatal(err)
				}

				chunk := testutil.Channels(testutil.Sine(997, 0.5, rate, chunkSize), channels)

				b.SetBytes(int64(chunkSize * channels * 8))
				b.ResetTimer()
				for b.Loop() {
					if err := m.AddFrames(chunk); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkAddFrames_HighRate measures the decimating path.
func BenchmarkAddFrames_HighRate(b *testing.B) {
	for _, rate := range []float64{96000, 192000, 384000} {
		b.Run(fmt.Sprintf("%.0fHz", rate), func(b *testing.B) {
			m, err := NewStereo(rate, ModeAll)
			if err != nil {
				b.Fatal(err)
			}
			chunk := testutil.Channels(testutil.Sine(997, 0.5, rate, int(rate/10)), 2)

			b.ResetTimer()
			for b.Loop() {
				if err := m.AddFrames(chunk); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
