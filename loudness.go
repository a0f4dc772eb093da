package loudness

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-audio-loudness/internal/simdops"
)

// Mode is a set of measurement capabilities.
type Mode uint32

const (
	// ModeMomentary enables momentary loudness (400 ms window).
	ModeMomentary Mode = 1 << iota

	// ModeShortTerm enables short-term loudness (3 s window).
	ModeShortTerm

	// ModeIntegrated enables gated integrated loudness.
	ModeIntegrated

	// ModeLRA enables loudness range.
	ModeLRA

	// ModeSamplePeak enables per-channel sample peak tracking.
	ModeSamplePeak

	// ModeTruePeak enables per-channel true-peak tracking.
	ModeTruePeak
)

// ModeAll enables every measurement.
const ModeAll = ModeMomentary | ModeShortTerm | ModeIntegrated | ModeLRA | ModeSamplePeak | ModeTruePeak

var modeNames = []struct {
	mode Mode
	name string
}{
	{ModeMomentary, "M"},
	{ModeShortTerm, "S"},
	{ModeIntegrated, "I"},
	{ModeLRA, "LRA"},
	{ModeSamplePeak, "SP"},
	{ModeTruePeak, "TP"},
}

// Has reports whether every flag in flags is set.
func (m Mode) Has(flags Mode) bool {
	return m&flags == flags
}

// withImplied adds the windows that integrated loudness and LRA depend on.
func (m Mode) withImplied() Mode {
	if m.Has(ModeLRA) {
		m |= ModeShortTerm
	}
	if m&(ModeIntegrated|ModeShortTerm) != 0 {
		m |= ModeMomentary
	}
	return m
}

// String returns the set flags joined with "|", e.g. "M|I|TP".
func (m Mode) String() string {
	if m == 0 {
		return "none"
	}

	var parts []string
	for _, mn := range modeNames {
		if m.Has(mn.mode) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseMode parses a comma or "|" separated list of mode names
// (M, S, I, LRA, SP, TP, all), case-insensitively.
func ParseMode(s string) (Mode, error) {
	var mode Mode
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == ' '
	})

	for _, f := range fields {
		if strings.EqualFold(f, "all") {
			mode |= ModeAll
			continue
		}

		found := false
		for _, mn := range modeNames {
			if strings.EqualFold(f, mn.name) {
				mode |= mn.mode
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, f)
		}
	}

	if mode == 0 {
		return 0, fmt.Errorf("%w: empty mode set", ErrInvalidConfig)
	}
	return mode, nil
}

// Config holds meter configuration.
type Config struct {
	// Channels is the number of interleaved or planar channels (1-64).
	Channels int

	// SampleRate is the input sample rate in Hz (8000-384000).
	SampleRate float64

	// Mode selects the active measurements. Implied modes are added by New.
	Mode Mode

	// EnableParallel filters channels concurrently within each AddFrames call.
	// Readings are identical to sequential processing. Has no effect on mono.
	EnableParallel bool
}

// Common errors returned by the meter.
var (
	// ErrInvalidConfig indicates invalid construction parameters.
	ErrInvalidConfig = errors.New("invalid meter configuration")

	// ErrInvalidChannelIndex indicates a channel index out of range or a
	// channel role that is not valid for the meter.
	ErrInvalidChannelIndex = errors.New("invalid channel index or role")

	// ErrDuplicateRole indicates a role already assigned to another channel.
	ErrDuplicateRole = errors.New("channel role already assigned")

	// ErrFrameShape indicates frames that do not match the channel layout.
	ErrFrameShape = errors.New("frame shape mismatch")

	// ErrInvalidMode indicates a reading whose mode was not enabled.
	ErrInvalidMode = errors.New("measurement mode not enabled")
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}

	if c.Channels < minChannels || c.Channels > maxChannels {
		return fmt.Errorf("%w: channels must be %d-%d, got %d", ErrInvalidConfig, minChannels, maxChannels, c.Channels)
	}

	if math.IsNaN(c.SampleRate) || c.SampleRate < minSampleRate || c.SampleRate > maxSampleRate {
		return fmt.Errorf("%w: sample rate must be %.0f-%.0f Hz, got %v", ErrInvalidConfig, minSampleRate, maxSampleRate, c.SampleRate)
	}

	if c.Mode&ModeAll == 0 {
		return fmt.Errorf("%w: no measurement mode selected", ErrInvalidConfig)
	}

	if c.Mode&^ModeAll != 0 {
		return fmt.Errorf("%w: unknown mode bits %#x", ErrInvalidConfig, uint32(c.Mode&^ModeAll))
	}

	return nil
}

// SIMDInfo describes the vector instruction set used by the filters.
func SIMDInfo() string {
	return simdops.CPUInfo()
}
