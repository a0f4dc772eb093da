package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-audio-loudness/internal/testutil"
)

// TestBesselI0 tests BesselI0 against known values.
func TestBesselI0(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		expected  float64
		tolerance float64
	}{
		{"Zero", 0.0, 1.0, 1e-15},
		{"Small positive", 0.5, 1.063483344, 1e-7},
		{"One", 1.0, 1.266065848, 1e-7},
		{"Three", 3.0, 4.880792565, 1e-7},
		{"Boundary 3.75", 3.75, 9.118945994, 1e-7},
		{"Five", 5.0, 27.23987183, 1e-7},
		{"Ten", 10.0, 2815.716628, 1e-6},
		{"Negative one", -1.0, 1.266065848, 1e-7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertRelativeError(t, tt.expected, BesselI0(tt.x), tt.tolerance)
		})
	}
}

func TestBesselI0_Monotonic(t *testing.T) {
	prev := BesselI0(0)
	for x := 0.1; x < 10.0; x += 0.1 {
		curr := BesselI0(x)
		assert.Greater(t, curr, prev, "BesselI0 not increasing at x=%v", x)
		prev = curr
	}
}

func TestKaiserBeta(t *testing.T) {
	tests := []struct {
		name        string
		attenuation float64
		expectedMin float64
		expectedMax float64
	}{
		{"rectangular", 20.0, 0.0, 0.0},
		{"50dB", 50.0, 4.5, 4.6},
		{"true-peak interpolator", 54.0, 4.95, 5.05},
		{"decimator", 70.0, 6.7, 6.8},
		{"100dB", 100.0, 10.0, 10.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertInRange(t, KaiserBeta(tt.attenuation), tt.expectedMin, tt.expectedMax)
		})
	}
}

func TestKaiserBeta_Monotonic(t *testing.T) {
	prevBeta := KaiserBeta(20.0)
	for att := 25.0; att <= 150.0; att += 5.0 {
		beta := KaiserBeta(att)
		assert.GreaterOrEqual(t, beta, prevBeta, "KaiserBeta not monotonic at att=%v", att)
		prevBeta = beta
	}
}

func TestEstimateFilterLength(t *testing.T) {
	tests := []struct {
		name         string
		attenuation  float64
		transitionBW float64
		expected     int
	}{
		{"decimate by 2", 70.0, 0.05, 87},
		{"decimate by 4", 70.0, 0.025, 173},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taps := EstimateFilterLength(tt.attenuation, tt.transitionBW)
			assert.Equal(t, tt.expected, taps)
			assert.Equal(t, 1, taps%2, "filter length should be odd")
		})
	}
}

func TestEstimateFilterLength_EdgeCases(t *testing.T) {
	assert.GreaterOrEqual(t, EstimateFilterLength(100.0, 0.0), 3)
	assert.Equal(t, 3, EstimateFilterLength(10.0, 0.4))
	assert.Equal(t, 8191, EstimateFilterLength(200.0, 0.0001))
}

func BenchmarkBesselI0(b *testing.B) {
	x := 4.5
	for b.Loop() {
		_ = BesselI0(x)
	}
}
