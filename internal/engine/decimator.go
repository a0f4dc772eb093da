package engine

import (
	"fmt"

	"github.com/tphakala/go-audio-loudness/internal/filter"
	"github.com/tphakala/go-audio-loudness/internal/simdops"
)

// Decimator low-pass filters and keeps every factor-th sample.
//
// Output m is the FIR response at input index m*factor; only those outputs are
// computed. History is primed with taps-1 zeros so the output stream does not
// depend on how the input is chunked.
type Decimator struct {
	factor int
	coeffs []float64 // reversed for a direct dot product with the history window

	history []float64

	outputBuf []float64
	ops       *simdops.Ops
}

// NewDecimator designs a Kaiser windowed-sinc anti-alias filter for factor.
// cutoff and transitionBW are normalized to the input rate.
func NewDecimator(factor int, cutoff, transitionBW, attenuation float64) (*Decimator, error) {
	if factor < 2 {
		return nil, fmt.Errorf("decimation factor must be >= 2: %d", factor)
	}

	coeffs, err := filter.DesignLowPassFilterAuto(cutoff, transitionBW, attenuation, 1.0)
	if err != nil {
		return nil, fmt.Errorf("failed to design decimation filter: %w", err)
	}

	reversed := make([]float64, len(coeffs))
	for i, c := range coeffs {
		reversed[len(coeffs)-1-i] = c
	}

	d := &Decimator{
		factor: factor,
		coeffs: reversed,
		ops:    simdops.Float64Ops(),
	}
	d.Reset()

	return d, nil
}

// Process filters and decimates input. The returned slice is reused by the
// next call.
func (d *Decimator) Process(input []float64) []float64 {
	d.history = append(d.history, input...)

	taps := len(d.coeffs)
	numOutput := 0
	if avail := len(d.history) - taps; avail >= 0 {
		numOutput = avail/d.factor + 1
	}

	if cap(d.outputBuf) < numOutput {
		d.outputBuf = make([]float64, numOutput)
	}
	output := d.outputBuf[:numOutput]

	pos := 0
	for i := range output {
		output[i] = d.ops.DotProductUnsafe(d.history[pos:pos+taps], d.coeffs)
		pos += d.factor
	}

	// pos never passes len(history) because taps >= factor.
	n := copy(d.history, d.history[pos:])
	d.history = d.history[:n]

	return output
}

// Reset clears the history.
func (d *Decimator) Reset() {
	d.history = append(d.history[:0], make([]float64, len(d.coeffs)-1)...)
}

// GetRatio returns the output/input rate ratio.
func (d *Decimator) GetRatio() float64 {
	return 1.0 / float64(d.factor)
}

// GetLatency returns the filter group delay in input samples.
func (d *Decimator) GetLatency() int {
	return len(d.coeffs) / latencyDivisor
}

// GetFilterLength returns the number of FIR taps.
func (d *Decimator) GetFilterLength() int {
	return len(d.coeffs)
}

// Factor returns the decimation factor.
func (d *Decimator) Factor() int {
	return d.factor
}
