package loudness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{Channels: 2, SampleRate: 48000, Mode: ModeIntegrated}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		config *Config
	}{
		{"nil", nil},
		{"zero channels", &Config{Channels: 0, SampleRate: 48000, Mode: ModeIntegrated}},
		{"too many channels", &Config{Channels: 65, SampleRate: 48000, Mode: ModeIntegrated}},
		{"rate too low", &Config{Channels: 1, SampleRate: 7999, Mode: ModeIntegrated}},
		{"rate too high", &Config{Channels: 1, SampleRate: 384001, Mode: ModeIntegrated}},
		{"rate NaN", &Config{Channels: 1, SampleRate: math.NaN(), Mode: ModeIntegrated}},
		{"empty mode", &Config{Channels: 1, SampleRate: 48000}},
		{"unknown mode bits", &Config{Channels: 1, SampleRate: 48000, Mode: ModeIntegrated | 1<<20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)

			_, err = New(tt.config)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfig_Bounds(t *testing.T) {
	for _, cfg := range []Config{
		{Channels: 1, SampleRate: 8000, Mode: ModeAll},
		{Channels: 64, SampleRate: 384000, Mode: ModeAll},
	} {
		_, err := New(&cfg)
		assert.NoError(t, err, "%+v", cfg)
	}
}

func TestMode_Implied(t *testing.T) {
	tests := []struct {
		requested Mode
		want      Mode
	}{
		{ModeMomentary, ModeMomentary},
		{ModeIntegrated, ModeIntegrated | ModeMomentary},
		{ModeShortTerm, ModeShortTerm | ModeMomentary},
		{ModeLRA, ModeLRA | ModeShortTerm | ModeMomentary},
		{ModeTruePeak, ModeTruePeak},
		{ModeAll, ModeAll},
	}

	for _, tt := range tests {
		m := newTestMeter(t, 1, 48000, tt.requested)
		assert.Equal(t, tt.want, m.Mode(), "requested %s", tt.requested)
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "none", Mode(0).String())
	assert.Equal(t, "I|LRA", (ModeIntegrated | ModeLRA).String())
	assert.Equal(t, "M|S|I|LRA|SP|TP", ModeAll.String())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"I", ModeIntegrated, false},
		{"i,lra", ModeIntegrated | ModeLRA, false},
		{"M|S|TP", ModeMomentary | ModeShortTerm | ModeTruePeak, false},
		{"all", ModeAll, false},
		{"I, SP", ModeIntegrated | ModeSamplePeak, false},
		{"", 0, true},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSIMDInfo(t *testing.T) {
	assert.NotEmpty(t, SIMDInfo())
}
