package filter

import (
	"math"
)

// K-weighting design constants (ITU-R BS.1770, bilinear-transform form).
const (
	// Stage 1: high-shelf modelling the acoustic effect of the head.
	shelfCenterFreq   = 1681.974450955533
	shelfGainDB       = 3.999843853973347
	shelfQ            = 0.7071752369554196
	shelfBandExponent = 0.4996667741545416

	// Stage 2: RLB high-pass.
	highPassCenterFreq = 38.13547087602444
	highPassQ          = 0.5003270373238773

	// KWeightingOrder is the number of taps in the combined numerator and denominator.
	KWeightingOrder = 5
)

// KWeightingCoefficients holds the two-stage K-weighting filter for one sample rate.
//
// Shelf and HighPass are applied in cascade. B and A are the same filter expressed
// as a single fourth-order section (their polynomial product), with A[0] = 1.
type KWeightingCoefficients struct {
	SampleRate float64
	Shelf      BiquadCoefficients
	HighPass   BiquadCoefficients
	B          [KWeightingOrder]float64
	A          [KWeightingOrder]float64
}

// KWeighting derives the K-weighting filter for the given sample rate.
// At 48 kHz the result matches the coefficient table published in BS.1770.
func KWeighting(sampleRate float64) KWeightingCoefficients {
	kw := KWeightingCoefficients{
		SampleRate: sampleRate,
		Shelf:      shelfCoefficients(sampleRate),
		HighPass:   highPassCoefficients(sampleRate),
	}

	kw.B = convolve3(kw.Shelf.Numerator(), kw.HighPass.Numerator())
	kw.A = convolve3(kw.Shelf.Denominator(), kw.HighPass.Denominator())

	return kw
}

func shelfCoefficients(sampleRate float64) BiquadCoefficients {
	k := math.Tan(math.Pi * shelfCenterFreq / sampleRate)
	vh := math.Pow(10, shelfGainDB/20)
	vb := math.Pow(vh, shelfBandExponent)
	a0 := 1 + k/shelfQ + k*k

	return BiquadCoefficients{
		B0: (vh + vb*k/shelfQ + k*k) / a0,
		B1: 2 * (k*k - vh) / a0,
		B2: (vh - vb*k/shelfQ + k*k) / a0,
		A1: 2 * (k*k - 1) / a0,
		A2: (1 - k/shelfQ + k*k) / a0,
	}
}

// highPassCoefficients uses an unnormalized numerator [1, -2, 1]; the passband
// gain slightly above unity is part of the BS.1770 definition.
func highPassCoefficients(sampleRate float64) BiquadCoefficients {
	k := math.Tan(math.Pi * highPassCenterFreq / sampleRate)
	a0 := 1 + k/highPassQ + k*k

	return BiquadCoefficients{
		B0: 1,
		B1: -2,
		B2: 1,
		A1: 2 * (k*k - 1) / a0,
		A2: (1 - k/highPassQ + k*k) / a0,
	}
}

// convolve3 multiplies two second-order polynomials.
func convolve3(p, q []float64) [KWeightingOrder]float64 {
	var out [KWeightingOrder]float64
	for i := range 3 {
		for j := range 3 {
			out[i+j] += p[i] * q[j]
		}
	}
	return out
}

// Cascade returns fresh stateful sections for the shelf and the high-pass.
func (kw KWeightingCoefficients) Cascade() (shelf, highPass *Biquad) {
	return NewBiquad(kw.Shelf), NewBiquad(kw.HighPass)
}

// MagnitudeDB returns the K-weighting gain in dB at freq Hz.
func (kw KWeightingCoefficients) MagnitudeDB(freq float64) float64 {
	return MagnitudeDB(MagnitudeAt(kw.B[:], kw.A[:], freq/kw.SampleRate))
}
