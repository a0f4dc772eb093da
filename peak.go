package loudness

import (
	"fmt"

	"github.com/tphakala/go-audio-loudness/internal/engine"
	"github.com/tphakala/go-audio-loudness/internal/mathutil"
)

// SamplePeak returns the largest absolute sample seen on channel, linear
// (1.0 is full scale).
func (m *Meter) SamplePeak(channel int) (float64, error) {
	return m.peak(channel, ModeSamplePeak, (*engine.PeakDetector).SamplePeak)
}

// TruePeak returns the largest interpolated absolute value seen on channel,
// linear. It is never below SamplePeak for the same channel.
func (m *Meter) TruePeak(channel int) (float64, error) {
	return m.peak(channel, ModeTruePeak, (*engine.PeakDetector).TruePeak)
}

// PrevSamplePeak returns the sample peak of the most recent AddFrames call.
func (m *Meter) PrevSamplePeak(channel int) (float64, error) {
	return m.peak(channel, ModeSamplePeak, (*engine.PeakDetector).PrevSamplePeak)
}

// PrevTruePeak returns the true peak of the most recent AddFrames call.
func (m *Meter) PrevTruePeak(channel int) (float64, error) {
	return m.peak(channel, ModeTruePeak, (*engine.PeakDetector).PrevTruePeak)
}

func (m *Meter) peak(channel int, mode Mode, read func(*engine.PeakDetector) float64) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if channel < 0 || channel >= len(m.channels) {
		return 0, fmt.Errorf("%w: channel %d out of range [0, %d)", ErrInvalidChannelIndex, channel, len(m.channels))
	}
	if !m.config.Mode.Has(mode) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}

	return read(m.channels[channel].peaks), nil
}

// TruePeakFactor returns the oversampling factor the meter uses for
// true-peak detection.
func (m *Meter) TruePeakFactor() int {
	return engine.TruePeakFactor(m.config.SampleRate)
}

// AmplitudeToDB converts a linear peak to dBFS (dBTP for true peaks).
// Zero maps to -Inf.
func AmplitudeToDB(amplitude float64) float64 {
	return mathutil.AmplitudeToDB(amplitude)
}
