package engine

import (
	"fmt"
	"math"
)

// PeakDetector tracks the sample peak and, optionally, the true peak of one
// channel at its original sample rate.
type PeakDetector struct {
	oversampler *Oversampler // nil when only sample peaks are tracked

	samplePeak     float64
	truePeak       float64
	prevSamplePeak float64
	prevTruePeak   float64
}

// TruePeakFactor returns the oversampling factor used for true-peak detection
// at sampleRate: 4 below 96 kHz, 2 below 192 kHz, otherwise 1.
func TruePeakFactor(sampleRate float64) int {
	switch {
	case sampleRate < truePeakRate4x:
		return oversample4x
	case sampleRate < truePeakRate2x:
		return oversample2x
	default:
		return 1
	}
}

// NewPeakDetector creates a detector for sampleRate. When truePeak is false
// no interpolator is built and TruePeak mirrors SamplePeak.
func NewPeakDetector(sampleRate float64, truePeak bool) (*PeakDetector, error) {
	d := &PeakDetector{}
	if !truePeak {
		return d, nil
	}

	ov, err := NewOversampler(TruePeakFactor(sampleRate))
	if err != nil {
		return nil, fmt.Errorf("failed to create true-peak oversampler: %w", err)
	}
	d.oversampler = ov

	return d, nil
}

// Process updates the peaks with one block of original-rate samples.
// The previous-block peaks are replaced even for an empty block.
func (d *PeakDetector) Process(samples []float64) {
	blockSample := maxAbs(samples)
	blockTrue := blockSample

	if d.oversampler != nil && d.oversampler.Factor() > 1 {
		blockTrue = max(blockTrue, maxAbs(d.oversampler.Process(samples)))
	}

	d.prevSamplePeak = blockSample
	d.prevTruePeak = blockTrue
	d.samplePeak = max(d.samplePeak, blockSample)
	d.truePeak = max(d.truePeak, blockTrue)
}

// SamplePeak returns the running maximum of |x|.
func (d *PeakDetector) SamplePeak() float64 { return d.samplePeak }

// TruePeak returns the running interpolated maximum, never below SamplePeak.
func (d *PeakDetector) TruePeak() float64 { return d.truePeak }

// PrevSamplePeak returns the sample peak of the last processed block.
func (d *PeakDetector) PrevSamplePeak() float64 { return d.prevSamplePeak }

// PrevTruePeak returns the true peak of the last processed block.
func (d *PeakDetector) PrevTruePeak() float64 { return d.prevTruePeak }

// Reset clears the peaks and the interpolator history.
func (d *PeakDetector) Reset() {
	d.samplePeak, d.truePeak = 0, 0
	d.prevSamplePeak, d.prevTruePeak = 0, 0
	if d.oversampler != nil {
		d.oversampler.Reset()
	}
}

func maxAbs(x []float64) float64 {
	var peak float64
	for _, v := range x {
		peak = max(peak, math.Abs(v))
	}
	return peak
}
