package loudness

import (
	"fmt"
	"math"
)

// Common sample rates.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD and broadcast sample rate.
	RateDAT = 48000

	// RateHiRes88 is the high-resolution 2x CD sample rate.
	RateHiRes88 = 88200

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes176 is the very high resolution 4x CD sample rate.
	RateHiRes176 = 176400

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000

	// RateHiRes384 is the highest supported sample rate.
	RateHiRes384 = 384000
)

// NewMono creates a single-channel meter.
func NewMono(sampleRate float64, mode Mode) (*Meter, error) {
	return New(&Config{
		Channels:   1,
		SampleRate: sampleRate,
		Mode:       mode,
	})
}

// NewStereo creates a two-channel meter with the default left/right map.
func NewStereo(sampleRate float64, mode Mode) (*Meter, error) {
	return New(&Config{
		Channels:   stereoChannels,
		SampleRate: sampleRate,
		Mode:       mode,
	})
}

// NewMultiChannel creates a meter for channels channels. Parallel channel
// filtering is enabled.
func NewMultiChannel(sampleRate float64, channels int, mode Mode) (*Meter, error) {
	return New(&Config{
		Channels:       channels,
		SampleRate:     sampleRate,
		Mode:           mode,
		EnableParallel: true,
	})
}

// Result is a snapshot of every reading a meter has enabled. Readings whose
// mode is disabled hold -Inf (loudness) or are nil (peaks).
type Result struct {
	Integrated        float64 // LUFS
	Range             float64 // LU
	RelativeThreshold float64 // LUFS
	Momentary         float64 // LUFS
	ShortTerm         float64 // LUFS

	SamplePeak []float64 // Linear, per channel
	TruePeak   []float64 // Linear, per channel
}

// MaxTruePeak returns the largest per-channel true peak, or 0 without true-peak data.
func (r *Result) MaxTruePeak() float64 {
	var peak float64
	for _, p := range r.TruePeak {
		peak = max(peak, p)
	}
	return peak
}

// MaxSamplePeak returns the largest per-channel sample peak.
func (r *Result) MaxSamplePeak() float64 {
	var peak float64
	for _, p := range r.SamplePeak {
		peak = max(peak, p)
	}
	return peak
}

// Snapshot collects the enabled readings. All of them are taken under one
// read lock, so they describe the same point in the stream even while another
// goroutine is adding frames.
func (m *Meter) Snapshot() Result {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mode := m.config.Mode
	res := Result{
		Integrated:        math.Inf(-1),
		RelativeThreshold: math.Inf(-1),
		Momentary:         math.Inf(-1),
		ShortTerm:         math.Inf(-1),
	}

	if mode.Has(ModeMomentary) {
		res.Momentary = m.momentaryLocked()
	}
	if mode.Has(ModeShortTerm) {
		res.ShortTerm = m.shortTermLocked()
	}
	if mode.Has(ModeIntegrated) {
		energies := appendGated(nil, m.momentary)
		res.Integrated = integrate(energies)
		res.RelativeThreshold = relativeThreshold(energies)
	}
	if mode.Has(ModeLRA) {
		res.Range = loudnessRange(appendGated(nil, m.shortTerm))
	}

	if mode.Has(ModeSamplePeak) {
		res.SamplePeak = make([]float64, len(m.channels))
		for ch, c := range m.channels {
			res.SamplePeak[ch] = c.peaks.SamplePeak()
		}
	}
	if mode.Has(ModeTruePeak) {
		res.TruePeak = make([]float64, len(m.channels))
		for ch, c := range m.channels {
			res.TruePeak[ch] = c.peaks.TruePeak()
		}
	}

	return res
}

// MeasureMono measures a complete mono signal with every mode enabled.
func MeasureMono(samples []float64, sampleRate float64) (*Result, error) {
	m, err := NewMono(sampleRate, ModeAll)
	if err != nil {
		return nil, err
	}

	if err := m.AddFrames([][]float64{samples}); err != nil {
		return nil, err
	}

	res := m.Snapshot()
	return &res, nil
}

// MeasureStereo measures a complete stereo signal with every mode enabled.
func MeasureStereo(left, right []float64, sampleRate float64) (*Result, error) {
	if len(left) != len(right) {
		return nil, fmt.Errorf("%w: left has %d samples, right has %d", ErrFrameShape, len(left), len(right))
	}

	m, err := NewStereo(sampleRate, ModeAll)
	if err != nil {
		return nil, err
	}

	if err := m.AddFrames([][]float64{left, right}); err != nil {
		return nil, err
	}

	res := m.Snapshot()
	return &res, nil
}

// Deinterleave splits interleaved frames into one slice per channel.
func Deinterleave(interleaved []float64, channels int) ([][]float64, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: channel count %d", ErrFrameShape, channels)
	}
	if len(interleaved)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples is not a multiple of %d channels", ErrFrameShape, len(interleaved), channels)
	}

	frames := len(interleaved) / channels
	out := make([][]float64, channels)
	for ch := range channels {
		out[ch] = make([]float64, frames)
	}

	for i := range frames {
		base := i * channels
		for ch := range channels {
			out[ch][i] = interleaved[base+ch]
		}
	}

	return out, nil
}

// DeinterleaveFromStereo splits an interleaved stereo buffer into left and
// right. A trailing odd sample is dropped.
func DeinterleaveFromStereo(interleaved []float64) (left, right []float64) {
	frames := len(interleaved) / stereoChannels
	left = make([]float64, frames)
	right = make([]float64, frames)

	for i := range frames {
		left[i] = interleaved[i*stereoChannels]
		right[i] = interleaved[i*stereoChannels+1]
	}

	return left, right
}
