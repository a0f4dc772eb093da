package loudness

// Configuration limits
const (
	minChannels   = 1
	maxChannels   = 64
	minSampleRate = 8000.0
	maxSampleRate = 384000.0

	stereoChannels = 2
)

// Window lengths in 100 ms segments
const (
	momentarySegments = 4  // 400 ms
	shortTermSegments = 30 // 3 s
)

// Gating (ITU-R BS.1770, EBU Tech 3342)
const (
	absoluteGate = -70.0 // LUFS

	integratedRelativeGate = -10.0 // LU below the ungated mean
	rangeRelativeGate      = -20.0 // LU below the ungated mean

	rangeLowPercentile  = 0.10
	rangeHighPercentile = 0.95

	minRangeBlocks = 2
)

// Channel weights
const (
	weightFront    = 1.0
	weightSurround = 1.41 // +1.5 dB
	weightDualMono = 2.0
)

const (
	// blockLogInitialCapacity holds one minute of 100 ms hops.
	blockLogInitialCapacity = 600
)
