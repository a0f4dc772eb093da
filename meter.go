package loudness

import (
	"fmt"
	"sync"

	"github.com/tphakala/go-audio-loudness/internal/pipeline"
	"github.com/tphakala/go-audio-loudness/internal/simdops"
)

// Block is one gating block: the channel-weighted mean square of a 400 ms
// (momentary) or 3 s (short-term) window.
type Block struct {
	// Energy is the weighted mean square of the K-weighted signal.
	Energy float64

	// End is the input frame index at which the block closed.
	End int64
}

// Meter is a streaming EBU R128 loudness meter.
type Meter struct {
	config   Config
	pipeline *pipeline.Pipeline

	channels []*channelState
	roles    []ChannelRole
	weights  []float64

	// Segment accumulation at the effective (post-decimation) rate.
	segments      *pipeline.SegmentRing
	segmentLength int
	segmentFill   int
	partial       []float64
	segmentCount  int64

	momentary []Block
	shortTerm []Block

	framesIn        int64
	effectiveFrames int64

	ops *simdops.Ops

	mu sync.RWMutex
}

// New creates a meter for the given configuration.
func New(config *Config) (*Meter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cfg := *config
	cfg.Mode = cfg.Mode.withImplied()

	p, err := pipeline.BuildPipeline(cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	ringSize := momentarySegments
	if cfg.Mode.Has(ModeShortTerm) {
		ringSize = shortTermSegments
	}

	m := &Meter{
		config:        cfg,
		pipeline:      p,
		channels:      make([]*channelState, cfg.Channels),
		roles:         defaultChannelMap(cfg.Channels),
		weights:       make([]float64, cfg.Channels),
		segments:      pipeline.NewSegmentRing(ringSize, cfg.Channels),
		segmentLength: p.SegmentLength(),
		partial:       make([]float64, cfg.Channels),
		ops:           simdops.Float64Ops(),
	}
	m.updateWeights()

	if cfg.Mode.Has(ModeIntegrated) {
		m.momentary = make([]Block, 0, blockLogInitialCapacity)
	}
	if cfg.Mode.Has(ModeLRA) {
		m.shortTerm = make([]Block, 0, blockLogInitialCapacity)
	}

	for i := range m.channels {
		ch, err := newChannelState(p, cfg.Mode)
		if err != nil {
			return nil, fmt.Errorf("failed to create channel %d: %w", i, err)
		}
		m.channels[i] = ch
	}

	return m, nil
}

// AddFrames ingests one chunk of planar frames: chunks[ch] holds the samples
// of channel ch and every channel must have the same length. A shape mismatch
// returns ErrFrameShape and leaves the meter untouched.
func (m *Meter) AddFrames(chunks [][]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkShape(chunks); err != nil {
		return err
	}

	m.addFrames(chunks)
	return nil
}

// AddFramesFloat32 is like AddFrames but for float32 samples.
func (m *Meter) AddFramesFloat32(chunks [][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(chunks) != len(m.channels) {
		return fmt.Errorf("%w: expected %d channels, got %d", ErrFrameShape, len(m.channels), len(chunks))
	}

	chunks64 := make([][]float64, len(chunks))
	for ch, samples := range chunks {
		chunks64[ch] = make([]float64, len(samples))
		for i, v := range samples {
			chunks64[ch][i] = float64(v)
		}
	}

	if err := m.checkShape(chunks64); err != nil {
		return err
	}

	m.addFrames(chunks64)
	return nil
}

// AddInterleaved ingests interleaved frames (L R L R ... for stereo).
// The length must be a multiple of the channel count.
func (m *Meter) AddInterleaved(frames []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	chunks, err := Deinterleave(frames, len(m.channels))
	if err != nil {
		return err
	}

	m.addFrames(chunks)
	return nil
}

func (m *Meter) checkShape(chunks [][]float64) error {
	if len(chunks) != len(m.channels) {
		return fmt.Errorf("%w: expected %d channels, got %d", ErrFrameShape, len(m.channels), len(chunks))
	}

	for ch := 1; ch < len(chunks); ch++ {
		if len(chunks[ch]) != len(chunks[0]) {
			return fmt.Errorf("%w: channel %d has %d frames, channel 0 has %d",
				ErrFrameShape, ch, len(chunks[ch]), len(chunks[0]))
		}
	}

	return nil
}

// addFrames must be called with the write lock held and a validated shape.
func (m *Meter) addFrames(chunks [][]float64) {
	if len(chunks[0]) == 0 {
		return
	}

	m.processChannels(chunks)
	m.accumulate()
	m.framesIn += int64(len(chunks[0]))
}

// processChannels runs every channel's filter chain and peak detector.
func (m *Meter) processChannels(chunks [][]float64) {
	if !m.config.EnableParallel || len(chunks) <= 1 {
		for ch := range chunks {
			m.channels[ch].process(chunks[ch])
		}
		return
	}

	var wg sync.WaitGroup
	for ch := range chunks {
		wg.Add(1)
		go func(channel int) {
			defer wg.Done()
			m.channels[channel].process(chunks[channel])
		}(ch)
	}
	wg.Wait()
}

// accumulate splits the weighted output of the last call into 100 ms
// segments and appends gating blocks as segments close.
func (m *Meter) accumulate() {
	n := len(m.channels[0].weighted)

	for pos := 0; pos < n; {
		take := min(m.segmentLength-m.segmentFill, n-pos)

		for ch, state := range m.channels {
			m.partial[ch] += m.ops.Energy(state.weighted[pos : pos+take])
		}

		pos += take
		m.segmentFill += take
		m.effectiveFrames += int64(take)

		if m.segmentFill == m.segmentLength {
			m.closeSegment()
		}
	}
}

func (m *Meter) closeSegment() {
	m.segments.Push(m.partial)
	clear(m.partial)
	m.segmentFill = 0
	m.segmentCount++

	end := m.effectiveFrames * int64(m.pipeline.GetDecimationFactor())

	if m.config.Mode.Has(ModeIntegrated) && m.segmentCount >= momentarySegments {
		m.momentary = append(m.momentary, Block{Energy: m.windowEnergy(momentarySegments), End: end})
	}
	if m.config.Mode.Has(ModeLRA) && m.segmentCount >= shortTermSegments {
		m.shortTerm = append(m.shortTerm, Block{Energy: m.windowEnergy(shortTermSegments), End: end})
	}
}

// windowEnergy returns the weighted mean square over the newest n segments.
// Segments not yet seen count as silence.
func (m *Meter) windowEnergy(n int) float64 {
	return m.segments.WeightedSum(n, m.weights) / float64(n*m.segmentLength)
}

// Reset clears all accumulated state. The channel map is kept.
func (m *Meter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ch := range m.channels {
		ch.reset()
	}

	m.segments.Clear()
	clear(m.partial)
	m.segmentFill = 0
	m.segmentCount = 0
	m.momentary = m.momentary[:0]
	m.shortTerm = m.shortTerm[:0]
	m.framesIn = 0
	m.effectiveFrames = 0
}

// Mode returns the active measurement set, including implied modes.
func (m *Meter) Mode() Mode {
	return m.config.Mode
}

// SampleRate returns the input sample rate.
func (m *Meter) SampleRate() float64 {
	return m.config.SampleRate
}

// ChannelCount returns the number of channels.
func (m *Meter) ChannelCount() int {
	return m.config.Channels
}

// EffectiveRate returns the rate K-weighting runs at after decimation.
func (m *Meter) EffectiveRate() float64 {
	return m.pipeline.EffectiveRate()
}

// DecimationFactor returns the decimation applied before K-weighting.
func (m *Meter) DecimationFactor() int {
	return m.pipeline.GetDecimationFactor()
}

// FramesProcessed returns the number of input frames ingested so far.
func (m *Meter) FramesProcessed() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.framesIn
}

// MomentaryBlocks returns a copy of the momentary block log.
func (m *Meter) MomentaryBlocks() []Block {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]Block(nil), m.momentary...)
}

// ShortTermBlocks returns a copy of the short-term block log.
func (m *Meter) ShortTermBlocks() []Block {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]Block(nil), m.shortTerm...)
}
