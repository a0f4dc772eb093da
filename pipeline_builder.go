package loudness

import (
	"fmt"

	"github.com/tphakala/go-audio-loudness/internal/engine"
	"github.com/tphakala/go-audio-loudness/internal/filter"
	"github.com/tphakala/go-audio-loudness/internal/pipeline"
)

// channelState is the per-channel half of the meter: the filter chain that
// turns input samples into K-weighted samples and the peak detector that
// watches the unfiltered input.
type channelState struct {
	stages []pipeline.Stage
	peaks  *engine.PeakDetector // nil without a peak mode

	// weighted is the chain output of the last call, owned by the last stage.
	weighted []float64
}

func newChannelState(p *pipeline.Pipeline, mode Mode) (*channelState, error) {
	specs := p.GetStages()
	ch := &channelState{
		stages: make([]pipeline.Stage, len(specs)),
	}

	for i, spec := range specs {
		stage, err := createStage(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to create stage %d (%s): %w", i, spec.Type, err)
		}
		ch.stages[i] = stage
	}

	if mode&(ModeSamplePeak|ModeTruePeak) != 0 {
		peaks, err := engine.NewPeakDetector(p.InputRate(), mode.Has(ModeTruePeak))
		if err != nil {
			return nil, err
		}
		ch.peaks = peaks
	}

	return ch, nil
}

func (c *channelState) process(input []float64) {
	out := input
	for _, stage := range c.stages {
		out = stage.Process(out)
	}
	c.weighted = out

	if c.peaks != nil {
		c.peaks.Process(input)
	}
}

func (c *channelState) reset() {
	for _, stage := range c.stages {
		stage.Reset()
	}
	c.weighted = nil

	if c.peaks != nil {
		c.peaks.Reset()
	}
}

// FilterCoefficients is the K-weighting filter as a single fourth-order
// section: y[n] = Σ B[k]x[n-k] - Σ A[k]y[n-k], k ≥ 1 for A, with A[0] = 1.
type FilterCoefficients struct {
	SampleRate float64
	B          [filter.KWeightingOrder]float64
	A          [filter.KWeightingOrder]float64
}

// KWeightingFilter returns the K-weighting coefficients for sampleRate.
func KWeightingFilter(sampleRate float64) FilterCoefficients {
	kw := filter.KWeighting(sampleRate)
	return FilterCoefficients{SampleRate: kw.SampleRate, B: kw.B, A: kw.A}
}

// FilterCoefficients returns the K-weighting filter the meter applies, derived
// at the effective rate.
func (m *Meter) FilterCoefficients() FilterCoefficients {
	return KWeightingFilter(m.pipeline.EffectiveRate())
}

// Latency returns the delay of the weighted path in input frames.
func (m *Meter) Latency() int {
	return m.pipeline.GetTotalLatency()
}
