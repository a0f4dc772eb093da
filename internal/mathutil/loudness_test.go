package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnergyToLoudness(t *testing.T) {
	tests := []struct {
		name     string
		energy   float64
		expected float64
	}{
		{"unit energy", 1.0, -0.691},
		{"full-scale sine", 0.5, -3.70129996},
		{"-20 dB", 0.01, -20.691},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EnergyToLoudness(tt.energy), 1e-6)
		})
	}
}

func TestEnergyToLoudness_Silence(t *testing.T) {
	assert.True(t, math.IsInf(EnergyToLoudness(0), -1))
	assert.True(t, math.IsInf(EnergyToLoudness(-1), -1))
}

func TestLoudnessToEnergy_RoundTrip(t *testing.T) {
	for _, lufs := range []float64{-70, -23, -14, 0} {
		assert.InDelta(t, lufs, EnergyToLoudness(LoudnessToEnergy(lufs)), 1e-9)
	}
}

func TestAmplitudeToDB(t *testing.T) {
	assert.InDelta(t, 0.0, AmplitudeToDB(1.0), 1e-12)
	assert.InDelta(t, -6.0206, AmplitudeToDB(0.5), 1e-4)
	assert.True(t, math.IsInf(AmplitudeToDB(0), -1))
}
