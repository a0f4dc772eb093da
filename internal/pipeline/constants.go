package pipeline

// Rate planning constants
const (
	// maxProcessingRate is the highest rate K-weighting runs at.
	maxProcessingRate = 96000.0

	// segmentsPerSecond is the number of 100 ms segments per second.
	segmentsPerSecond = 10.0
)

// Decimation anti-alias filter; cutoff and transition are divided by the factor
const (
	decimationCutoff      = 0.4  // Normalized cutoff before division by the factor
	decimationTransition  = 0.1  // Normalized transition width before division by the factor
	decimationAttenuation = 70.0 // Stopband attenuation (dB)
)

const (
	defaultStageCapacity = 2 // Decimation + K-weighting
	kWeightingSections   = 2 // Shelf and high-pass biquads
	latencyDivisor       = 2 // Linear-phase FIR delay is half its length
)
