package engine

// True-peak interpolator design.
const (
	// truePeakTapsPerPhase is the number of input samples each interpolated
	// sample depends on.
	truePeakTapsPerPhase = 12

	// truePeakAttenuation selects a Kaiser β of about 5.
	truePeakAttenuation = 54.0
)

// Oversampling factor selection by input rate (Hz).
const (
	truePeakRate4x = 96000.0  // Below this rate: 4× oversampling
	truePeakRate2x = 192000.0 // Below this rate: 2× oversampling, otherwise none

	oversample4x = 4
	oversample2x = 2
)

const (
	// latencyDivisor converts a linear-phase FIR length to its group delay.
	latencyDivisor = 2

	// halfBandFactor is the factor that interleaves with a single SIMD call.
	halfBandFactor = 2
)
