// Package pipeline plans the per-channel processing chain of the loudness meter
// and holds the segment buffers that sit between that chain and the gating code.
//
// A chain always ends with K-weighting. Inputs above 96 kHz are first decimated
// by an integer factor so the weighting filter and the 100 ms segment grid run
// at a rate at most 96 kHz.
package pipeline

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-loudness/internal/mathutil"
)

// Stage represents a single processing stage in a channel chain.
type Stage interface {
	// Process transforms input samples to output samples. The returned slice is
	// owned by the stage and is valid until the next call to Process.
	Process(input []float64) []float64

	// Reset clears internal state.
	Reset()

	// GetRatio returns the stage's rate ratio (output/input).
	GetRatio() float64

	// GetLatency returns the stage latency in input samples.
	GetLatency() int

	// GetFilterLength returns the filter length (0 if not applicable).
	GetFilterLength() int
}

// StageType identifies the type of processing stage.
type StageType int

const (
	// StageDecimate performs anti-alias filtering and integer decimation.
	StageDecimate StageType = iota

	// StageKWeighting applies the BS.1770 shelf and high-pass filters.
	StageKWeighting
)

// String returns a short stage name.
func (t StageType) String() string {
	switch t {
	case StageDecimate:
		return "decimate"
	case StageKWeighting:
		return "k-weighting"
	default:
		return "unknown"
	}
}

// StageSpec specifies parameters for creating a stage.
type StageSpec struct {
	Type         StageType
	InputRate    float64 // Sample rate entering the stage
	OutputRate   float64 // Sample rate leaving the stage
	Factor       int     // Decimation factor (1 for rate-preserving stages)
	FilterLength int     // Number of filter taps (FIR) or sections (IIR)
	Cutoff       float64 // Normalized cutoff at InputRate (decimation only)
	TransitionBW float64 // Normalized transition bandwidth (decimation only)
	Attenuation  float64 // Stopband attenuation in dB (decimation only)
}

// Pipeline is the ordered stage plan for one input sample rate.
type Pipeline struct {
	stages           []StageSpec
	inputRate        float64
	effectiveRate    float64
	decimationFactor int
	totalLatency     int
}

// BuildPipeline plans the chain for inputs at sampleRate.
func BuildPipeline(sampleRate float64) (*Pipeline, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("invalid sample rate: %f", sampleRate)
	}

	p := &Pipeline{
		inputRate:        sampleRate,
		effectiveRate:    sampleRate,
		decimationFactor: 1,
		stages:           make([]StageSpec, 0, defaultStageCapacity),
	}

	if factor := DecimationFactor(sampleRate); factor > 1 {
		p.decimationFactor = factor
		p.effectiveRate = sampleRate / float64(factor)
		cutoff := decimationCutoff / float64(factor)
		transition := decimationTransition / float64(factor)

		p.stages = append(p.stages, StageSpec{
			Type:         StageDecimate,
			InputRate:    sampleRate,
			OutputRate:   p.effectiveRate,
			Factor:       factor,
			FilterLength: mathutil.EstimateFilterLength(decimationAttenuation, transition),
			Cutoff:       cutoff,
			TransitionBW: transition,
			Attenuation:  decimationAttenuation,
		})
	}

	p.stages = append(p.stages, StageSpec{
		Type:         StageKWeighting,
		InputRate:    p.effectiveRate,
		OutputRate:   p.effectiveRate,
		Factor:       1,
		FilterLength: kWeightingSections,
	})

	p.calculateLatency()

	return p, nil
}

// DecimationFactor returns ceil(rate / 96000) for rates above 96 kHz and 1 otherwise.
func DecimationFactor(sampleRate float64) int {
	if sampleRate <= maxProcessingRate {
		return 1
	}
	return int(math.Ceil(sampleRate / maxProcessingRate))
}

// calculateLatency computes the total chain latency in input samples.
func (p *Pipeline) calculateLatency() {
	total := 0
	for _, stage := range p.stages {
		if stage.Type == StageDecimate {
			total += stage.FilterLength / latencyDivisor
		}
	}
	p.totalLatency = total
}

// GetStages returns the pipeline stages in processing order.
func (p *Pipeline) GetStages() []StageSpec {
	return p.stages
}

// InputRate returns the rate the pipeline was planned for.
func (p *Pipeline) InputRate() float64 {
	return p.inputRate
}

// EffectiveRate returns the rate at which K-weighting and segmenting run.
func (p *Pipeline) EffectiveRate() float64 {
	return p.effectiveRate
}

// GetDecimationFactor returns the integer decimation applied before weighting.
func (p *Pipeline) GetDecimationFactor() int {
	return p.decimationFactor
}

// GetTotalLatency returns the total chain latency in input samples.
func (p *Pipeline) GetTotalLatency() int {
	return p.totalLatency
}

// SegmentLength returns the number of effective-rate samples in one 100 ms
// segment, round(rate/10).
func (p *Pipeline) SegmentLength() int {
	return int(math.Round(p.effectiveRate / segmentsPerSecond))
}
