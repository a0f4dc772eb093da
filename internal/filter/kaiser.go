// Package filter provides the filter designs used by the loudness meter:
// the BS.1770 K-weighting biquads, Kaiser windowed-sinc lowpass filters for
// decimation, and the polyphase interpolator used for true-peak detection.
package filter

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-audio-loudness/internal/mathutil"
	"github.com/tphakala/go-audio-loudness/internal/simdops"
)

const (
	// Filter design constants
	minFilterTaps = 3
	maxFilterTaps = 8191

	// Window normalization
	windowNormalizationFactor = 2.0

	sincCenterTap     = 1.0
	sincZeroThreshold = 1e-10

	defaultResponsePoints = 512
)

// KaiserWindow generates a Kaiser window of the specified length and β parameter.
//
// The window is symmetric: w[i] = w[length-1-i], with w at the centre equal to 1.
// Larger β trades main lobe width for lower sidelobes.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = sincCenterTap
		return window
	}

	// w[n] = I₀(β * sqrt(1 - ((n - α)/α)²)) / I₀(β), α = (N-1)/2
	alpha := float64(length-1) / windowNormalizationFactor
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = mathutil.BesselI0(beta*math.Sqrt(1.0-x*x)) / i0Beta
	}

	return window
}

// FilterParams holds parameters for lowpass filter design.
type FilterParams struct {
	// NumTaps is the filter length (number of coefficients)
	NumTaps int

	// CutoffFreq is the normalized cutoff frequency (0 to 0.5)
	// 0.5 represents Nyquist frequency (half the sample rate)
	CutoffFreq float64

	// Attenuation is the desired stopband attenuation in dB
	Attenuation float64

	// Gain is the passband gain (typically 1.0)
	Gain float64
}

// Validate checks if filter parameters are valid.
func (fp *FilterParams) Validate() error {
	if fp.NumTaps < minFilterTaps {
		return fmt.Errorf("filter too short: %d taps (minimum %d)", fp.NumTaps, minFilterTaps)
	}

	if fp.NumTaps > maxFilterTaps {
		return fmt.Errorf("filter too long: %d taps (maximum %d)", fp.NumTaps, maxFilterTaps)
	}

	if fp.CutoffFreq <= 0 || fp.CutoffFreq >= 0.5 {
		return fmt.Errorf("invalid cutoff frequency: %f (must be in (0, 0.5))", fp.CutoffFreq)
	}

	if fp.Attenuation < 0 {
		return fmt.Errorf("invalid attenuation: %f dB (must be positive)", fp.Attenuation)
	}

	if fp.Gain <= 0 {
		return fmt.Errorf("invalid gain: %f (must be positive)", fp.Gain)
	}

	return nil
}

// DesignLowPassFilter designs a linear-phase windowed-sinc lowpass FIR filter,
// normalized to params.Gain at DC.
func DesignLowPassFilter(params FilterParams) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	window := KaiserWindow(params.NumTaps, mathutil.KaiserBeta(params.Attenuation))
	coeffs := windowedSinc(params.NumTaps, params.CutoffFreq, window)
	normalizeGain(coeffs, params.Gain)

	return coeffs, nil
}

// DesignLowPassFilterAuto designs a lowpass filter whose length is derived from
// the attenuation and normalized transition bandwidth.
func DesignLowPassFilterAuto(cutoffFreq, transitionBW, attenuation, gain float64) ([]float64, error) {
	return DesignLowPassFilter(FilterParams{
		NumTaps:     mathutil.EstimateFilterLength(attenuation, transitionBW),
		CutoffFreq:  cutoffFreq,
		Attenuation: attenuation,
		Gain:        gain,
	})
}

// windowedSinc returns sin(2πfc·x)/(πx) sampled around the filter centre and
// multiplied by window.
func windowedSinc(numTaps int, cutoff float64, window []float64) []float64 {
	coeffs := make([]float64, numTaps)
	center := float64(numTaps-1) / windowNormalizationFactor

	for n := range numTaps {
		x := float64(n) - center

		var sincValue float64
		if math.Abs(x) < sincZeroThreshold {
			// Limit at x=0 is 2*fc
			sincValue = windowNormalizationFactor * cutoff
		} else {
			sincValue = math.Sin(windowNormalizationFactor*math.Pi*cutoff*x) / (math.Pi * x)
		}

		coeffs[n] = sincValue * window[n]
	}

	return coeffs
}

// normalizeGain scales coeffs in place so that they sum to gain.
func normalizeGain(coeffs []float64, gain float64) {
	ops := simdops.Float64Ops()
	sum := ops.Sum(coeffs)
	if math.Abs(sum) > sincZeroThreshold {
		ops.Scale(coeffs, coeffs, gain/sum)
	}
}

// FilterResponse holds the frequency response of a filter.
type FilterResponse struct {
	// Frequencies at which response was calculated (normalized, 0 to 0.5)
	Frequencies []float64

	// Magnitude response at each frequency (linear scale)
	Magnitude []float64

	// Phase response at each frequency (radians)
	Phase []float64
}

// ComputeFrequencyResponse evaluates H(e^jω) = B(e^jω) / A(e^jω) at numPoints
// frequencies between DC and Nyquist. Pass a nil denominator for an FIR filter.
func ComputeFrequencyResponse(b, a []float64, numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}

	response := FilterResponse{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
		Phase:       make([]float64, numPoints),
	}

	for k := range numPoints {
		freq := float64(k) / (windowNormalizationFactor * float64(numPoints))
		response.Frequencies[k] = freq

		h := evaluatePolynomial(b, freq)
		if len(a) > 0 {
			h /= evaluatePolynomial(a, freq)
		}

		response.Magnitude[k] = cmplx.Abs(h)
		response.Phase[k] = cmplx.Phase(h)
	}

	return response
}

// MagnitudeAt returns |H| at a single normalized frequency.
func MagnitudeAt(b, a []float64, freq float64) float64 {
	h := evaluatePolynomial(b, freq)
	if len(a) > 0 {
		h /= evaluatePolynomial(a, freq)
	}
	return cmplx.Abs(h)
}

// evaluatePolynomial computes Σ c[n]·e^(-j2πfn).
func evaluatePolynomial(c []float64, freq float64) complex128 {
	omega := windowNormalizationFactor * math.Pi * freq
	var re, im float64
	for n, v := range c {
		angle := omega * float64(n)
		re += v * math.Cos(angle)
		im -= v * math.Sin(angle)
	}
	return complex(re, im)
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	const minMagnitude = 1e-10 // Avoid log(0)

	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return mathutil.AmplitudeToDB(magnitude)
}
