package loudness

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/go-audio-loudness/internal/mathutil"
)

// LoudnessMomentary returns the loudness of the last 400 ms in LUFS.
// Only closed 100 ms segments count; missing ones are silence.
func (m *Meter) LoudnessMomentary() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.config.Mode.Has(ModeMomentary) {
		return math.Inf(-1), fmt.Errorf("%w: momentary", ErrInvalidMode)
	}
	return m.momentaryLocked(), nil
}

// LoudnessShortTerm returns the loudness of the last 3 s in LUFS.
func (m *Meter) LoudnessShortTerm() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.config.Mode.Has(ModeShortTerm) {
		return math.Inf(-1), fmt.Errorf("%w: short-term", ErrInvalidMode)
	}
	return m.shortTermLocked(), nil
}

// momentaryLocked and shortTermLocked expect m.mu to be held.
func (m *Meter) momentaryLocked() float64 {
	return mathutil.EnergyToLoudness(m.windowEnergy(momentarySegments))
}

func (m *Meter) shortTermLocked() float64 {
	return mathutil.EnergyToLoudness(m.windowEnergy(shortTermSegments))
}

// LoudnessGlobal returns the gated integrated loudness in LUFS, or -Inf when
// no block passes both gates.
func (m *Meter) LoudnessGlobal() (float64, error) {
	return LoudnessGlobalMultiple(m)
}

// RelativeThreshold returns the relative gate of the integrated measurement
// in LUFS. Before any block passes the absolute gate it is -70.
func (m *Meter) RelativeThreshold() (float64, error) {
	energies, err := collectBlocks(ModeIntegrated, func(m *Meter) []Block { return m.momentary }, m)
	if err != nil {
		return math.Inf(-1), err
	}

	return relativeThreshold(energies), nil
}

// LoudnessGlobalMultiple returns the integrated loudness over the union of
// the blocks of all meters, as if their audio had been measured as one.
func LoudnessGlobalMultiple(meters ...*Meter) (float64, error) {
	energies, err := collectBlocks(ModeIntegrated, func(m *Meter) []Block { return m.momentary }, meters...)
	if err != nil {
		return math.Inf(-1), err
	}
	return integrate(energies), nil
}

// LoudnessRange returns the loudness range in LU per EBU Tech 3342.
func (m *Meter) LoudnessRange() (float64, error) {
	return LoudnessRangeMultiple(m)
}

// LoudnessRangeMultiple returns the loudness range over the union of the
// short-term blocks of all meters.
func LoudnessRangeMultiple(meters ...*Meter) (float64, error) {
	energies, err := collectBlocks(ModeLRA, func(m *Meter) []Block { return m.shortTerm }, meters...)
	if err != nil {
		return 0, err
	}
	return loudnessRange(energies), nil
}

// collectBlocks copies the block energies of every meter that pass the
// absolute gate. Each meter is read under its own lock.
func collectBlocks(mode Mode, blocks func(*Meter) []Block, meters ...*Meter) ([]float64, error) {
	var energies []float64
	for i, m := range meters {
		if m == nil {
			return nil, fmt.Errorf("%w: meter %d is nil", ErrInvalidConfig, i)
		}

		m.mu.RLock()
		if !m.config.Mode.Has(mode) {
			m.mu.RUnlock()
			return nil, fmt.Errorf("%w: %s on meter %d", ErrInvalidMode, mode, i)
		}
		energies = appendGated(energies, blocks(m))
		m.mu.RUnlock()
	}

	return energies, nil
}

// appendGated appends the energies of blocks above the absolute gate.
func appendGated(dst []float64, blocks []Block) []float64 {
	gate := mathutil.LoudnessToEnergy(absoluteGate)
	for _, b := range blocks {
		if b.Energy > gate {
			dst = append(dst, b.Energy)
		}
	}
	return dst
}

// relativeGate returns the energy lying offsetLU below the mean of energies.
func relativeGate(energies []float64, offsetLU float64) (float64, bool) {
	if len(energies) == 0 {
		return 0, false
	}
	mean := stat.Mean(energies, nil)
	return mean * math.Pow(10, offsetLU/10), true
}

// relativeThreshold returns the integrated relative gate in LUFS, or the
// absolute gate when no energies are given.
func relativeThreshold(energies []float64) float64 {
	threshold, ok := relativeGate(energies, integratedRelativeGate)
	if !ok {
		return absoluteGate
	}
	return mathutil.EnergyToLoudness(threshold)
}

// integrate applies the relative gate to absolute-gated energies and returns
// the loudness of the survivors.
func integrate(energies []float64) float64 {
	threshold, ok := relativeGate(energies, integratedRelativeGate)
	if !ok {
		return math.Inf(-1)
	}

	var sum float64
	var count int
	for _, e := range energies {
		if e > threshold {
			sum += e
			count++
		}
	}
	if count == 0 {
		return math.Inf(-1)
	}

	return mathutil.EnergyToLoudness(sum / float64(count))
}

// loudnessRange applies the -20 LU relative gate to absolute-gated short-term
// energies and returns the spread between the 10th and 95th percentiles.
func loudnessRange(energies []float64) float64 {
	threshold, ok := relativeGate(energies, rangeRelativeGate)
	if !ok {
		return 0
	}

	levels := make([]float64, 0, len(energies))
	for _, e := range energies {
		if e > threshold {
			levels = append(levels, mathutil.EnergyToLoudness(e))
		}
	}
	if len(levels) < minRangeBlocks {
		return 0
	}

	sort.Float64s(levels)
	return percentile(levels, rangeHighPercentile) - percentile(levels, rangeLowPercentile)
}

// percentile interpolates linearly between the order statistics around
// position (n-1)*p of sorted.
func percentile(sorted []float64, p float64) float64 {
	pos := float64(len(sorted)-1) * p
	lo := int(math.Floor(pos))
	hi := min(lo+1, len(sorted)-1)
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}
