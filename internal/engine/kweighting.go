package engine

import (
	"github.com/tphakala/go-audio-loudness/internal/filter"
)

// KWeightingStage runs the BS.1770 shelf and high-pass sections in cascade.
// Filter state persists across calls.
type KWeightingStage struct {
	coeffs   filter.KWeightingCoefficients
	shelf    *filter.Biquad
	highPass *filter.Biquad

	outputBuf []float64
}

// NewKWeightingStage derives the K-weighting filter for sampleRate.
func NewKWeightingStage(sampleRate float64) *KWeightingStage {
	kw := filter.KWeighting(sampleRate)
	shelf, highPass := kw.Cascade()

	return &KWeightingStage{
		coeffs:   kw,
		shelf:    shelf,
		highPass: highPass,
	}
}

// Process filters input without modifying it. The returned slice is reused by
// the next call.
func (s *KWeightingStage) Process(input []float64) []float64 {
	if cap(s.outputBuf) < len(input) {
		s.outputBuf = make([]float64, len(input))
	}
	output := s.outputBuf[:len(input)]
	copy(output, input)

	s.shelf.ProcessInPlace(output)
	s.highPass.ProcessInPlace(output)

	return output
}

// Reset clears both delay lines.
func (s *KWeightingStage) Reset() {
	s.shelf.Reset()
	s.highPass.Reset()
}

// GetRatio returns 1; K-weighting preserves the rate.
func (s *KWeightingStage) GetRatio() float64 {
	return 1.0
}

// GetLatency returns 0; the IIR sections have no fixed delay.
func (s *KWeightingStage) GetLatency() int {
	return 0
}

// GetFilterLength returns the number of biquad sections.
func (s *KWeightingStage) GetFilterLength() int {
	return 2
}

// Coefficients returns the filter in use.
func (s *KWeightingStage) Coefficients() filter.KWeightingCoefficients {
	return s.coeffs
}
