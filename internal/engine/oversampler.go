// Package engine holds the streaming per-channel DSP stages of the loudness
// meter: K-weighting, integer decimation and the polyphase oversampler that
// feeds true-peak detection.
package engine

import (
	"fmt"

	"github.com/tphakala/go-audio-loudness/internal/filter"
	"github.com/tphakala/go-audio-loudness/internal/simdops"
)

// Oversampler implements integer-ratio upsampling using a polyphase FIR bank.
// Each input sample produces factor output samples; no zeros are multiplied.
//
// The history starts primed with tapsPerPhase-1 zeros, so output i*factor+p is
// available as soon as input i arrives and chunk boundaries never change the
// output stream.
type Oversampler struct {
	factor int

	// Polyphase filter bank - coeffs[phase][tap] in reversed order
	polyCoeffs   [][]float64
	tapsPerPhase int

	// Input history buffer (non-upsampled)
	history []float64

	outputBuf []float64
	phaseBufs [][]float64

	ops *simdops.Ops
}

// NewOversampler creates an oversampler. A factor of 1 passes input through.
func NewOversampler(factor int) (*Oversampler, error) {
	if factor < 1 {
		return nil, fmt.Errorf("oversampling factor must be >= 1: %d", factor)
	}

	ops := simdops.Float64Ops()

	if factor == 1 {
		return &Oversampler{factor: 1, ops: ops}, nil
	}

	bank, err := filter.DesignInterpolator(filter.InterpolatorParams{
		Factor:       factor,
		TapsPerPhase: truePeakTapsPerPhase,
		Attenuation:  truePeakAttenuation,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to design true-peak interpolator: %w", err)
	}

	s := &Oversampler{
		factor:       factor,
		polyCoeffs:   bank.Phases,
		tapsPerPhase: bank.TapsPerPhase,
		phaseBufs:    make([][]float64, factor),
		ops:          ops,
	}
	s.Reset()

	return s, nil
}

// Process upsamples input. The returned slice is reused by the next call.
func (s *Oversampler) Process(input []float64) []float64 {
	if s.factor == 1 || len(input) == 0 {
		return input
	}

	s.history = append(s.history, input...)
	numAvailable := len(s.history)
	numProcessable := numAvailable - s.tapsPerPhase + 1
	numOutput := numProcessable * s.factor

	if cap(s.outputBuf) < numOutput {
		s.outputBuf = make([]float64, numOutput)
	}
	output := s.outputBuf[:numOutput]

	for phase := range s.factor {
		if cap(s.phaseBufs[phase]) < numProcessable {
			s.phaseBufs[phase] = make([]float64, numProcessable)
		} else {
			s.phaseBufs[phase] = s.phaseBufs[phase][:numProcessable]
		}
	}

	s.ops.ConvolveValidMulti(s.phaseBufs, s.history, s.polyCoeffs)

	if s.factor == halfBandFactor {
		s.ops.Interleave2(output, s.phaseBufs[0], s.phaseBufs[1])
	} else {
		for i := range numProcessable {
			outBase := i * s.factor
			for phase := range s.factor {
				output[outBase+phase] = s.phaseBufs[phase][i]
			}
		}
	}

	// Keep only the samples the next window still needs.
	copy(s.history, s.history[numProcessable:])
	s.history = s.history[:numAvailable-numProcessable]

	return output
}

// Reset clears the input history.
func (s *Oversampler) Reset() {
	if s.factor == 1 {
		return
	}
	s.history = append(s.history[:0], make([]float64, s.tapsPerPhase-1)...)
}

// GetRatio returns the oversampling factor.
func (s *Oversampler) GetRatio() float64 {
	return float64(s.factor)
}

// GetLatency returns the interpolation delay in input samples.
func (s *Oversampler) GetLatency() int {
	return s.tapsPerPhase / latencyDivisor
}

// GetFilterLength returns the prototype filter length.
func (s *Oversampler) GetFilterLength() int {
	return s.tapsPerPhase * s.factor
}

// Factor returns the oversampling factor.
func (s *Oversampler) Factor() int {
	return s.factor
}
