package filter

import (
	"fmt"

	"github.com/tphakala/go-audio-loudness/internal/mathutil"
)

const (
	minInterpolationFactor = 2
	maxInterpolationFactor = 16

	minTapsPerPhase = 4
	maxTapsPerPhase = 64
)

// InterpolatorParams holds parameters for an integer-factor interpolator design.
type InterpolatorParams struct {
	// Factor is the oversampling factor L (output rate = L × input rate).
	Factor int

	// TapsPerPhase is the number of input samples each output sample depends on.
	TapsPerPhase int

	// Attenuation sets the Kaiser β of the prototype window, in dB.
	Attenuation float64
}

// Validate checks if interpolator parameters are valid.
func (ip *InterpolatorParams) Validate() error {
	if ip.Factor < minInterpolationFactor || ip.Factor > maxInterpolationFactor {
		return fmt.Errorf("interpolation factor %d out of range [%d, %d]",
			ip.Factor, minInterpolationFactor, maxInterpolationFactor)
	}

	if ip.TapsPerPhase < minTapsPerPhase || ip.TapsPerPhase > maxTapsPerPhase {
		return fmt.Errorf("taps per phase %d out of range [%d, %d]",
			ip.TapsPerPhase, minTapsPerPhase, maxTapsPerPhase)
	}

	if ip.Attenuation < 0 {
		return fmt.Errorf("attenuation %f dB must be positive", ip.Attenuation)
	}

	return nil
}

// InterpolatorBank is the polyphase decomposition of a lowpass prototype
// designed at L times the input rate with its cutoff at the input Nyquist.
//
// Phase p produces the output sample p/L of an input period after the newest
// input. Coefficients are stored REVERSED (oldest input first) so a phase can be
// applied directly as a valid correlation over the input history.
type InterpolatorBank struct {
	// Phases holds Factor kernels of TapsPerPhase coefficients each.
	// Every phase is normalized to unit DC gain.
	Phases [][]float64

	Factor       int
	TapsPerPhase int
}

// DesignInterpolator builds a Kaiser windowed-sinc polyphase interpolator.
func DesignInterpolator(params InterpolatorParams) (*InterpolatorBank, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid interpolator parameters: %w", err)
	}

	factor := params.Factor
	totalTaps := factor * params.TapsPerPhase

	// Cutoff at the input Nyquist, expressed at the oversampled rate.
	cutoff := 0.5 / float64(factor)
	window := KaiserWindow(totalTaps, mathutil.KaiserBeta(params.Attenuation))
	prototype := windowedSinc(totalTaps, cutoff, window)

	bank := &InterpolatorBank{
		Phases:       make([][]float64, factor),
		Factor:       factor,
		TapsPerPhase: params.TapsPerPhase,
	}

	// prototype[tap*factor + phase] belongs to phase; store reversed.
	for phase := range factor {
		coeffs := make([]float64, params.TapsPerPhase)
		for tap := range params.TapsPerPhase {
			coeffs[params.TapsPerPhase-1-tap] = prototype[tap*factor+phase]
		}
		normalizeGain(coeffs, 1.0)
		bank.Phases[phase] = coeffs
	}

	return bank, nil
}

// Latency returns the group delay of the bank in input samples.
func (b *InterpolatorBank) Latency() int {
	return b.TapsPerPhase / 2
}
