package pipeline

// SegmentRing is a fixed-capacity circular buffer of closed 100 ms segments.
// Each slot holds one energy sum per channel. Pushing into a full ring
// overwrites the oldest segment.
//
// SegmentRing is not safe for concurrent use; the meter serializes access.
type SegmentRing struct {
	data     []float64 // capacity * channels, slot-major
	channels int
	capacity int
	writePos int
	size     int
}

// NewSegmentRing creates a ring holding capacity segments of channels values.
func NewSegmentRing(capacity, channels int) *SegmentRing {
	if capacity < 1 {
		capacity = 1
	}
	if channels < 1 {
		channels = 1
	}

	return &SegmentRing{
		data:     make([]float64, capacity*channels),
		channels: channels,
		capacity: capacity,
	}
}

// Push appends one segment; energies must hold one value per channel.
func (r *SegmentRing) Push(energies []float64) {
	copy(r.data[r.writePos*r.channels:(r.writePos+1)*r.channels], energies)
	r.writePos = (r.writePos + 1) % r.capacity
	if r.size < r.capacity {
		r.size++
	}
}

// WeightedSum returns Σ weights[ch] * energy over the newest n segments.
// Segments that were never written count as silence.
func (r *SegmentRing) WeightedSum(n int, weights []float64) float64 {
	n = min(n, r.size)

	var total float64
	pos := r.writePos
	for range n {
		pos--
		if pos < 0 {
			pos = r.capacity - 1
		}
		slot := r.data[pos*r.channels : (pos+1)*r.channels]
		for ch, w := range weights {
			if w != 0 {
				total += w * slot[ch]
			}
		}
	}

	return total
}

// Len returns the number of segments held.
func (r *SegmentRing) Len() int {
	return r.size
}

// Capacity returns the maximum number of segments held.
func (r *SegmentRing) Capacity() int {
	return r.capacity
}

// Clear removes all segments.
func (r *SegmentRing) Clear() {
	clear(r.data)
	r.writePos = 0
	r.size = 0
}
