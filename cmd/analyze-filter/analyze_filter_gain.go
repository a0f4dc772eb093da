// Command analyze-filter prints diagnostics for the meter's filters: the
// K-weighting response computed both analytically and from an FFT of the
// impulse response, the per-phase DC gain of the true-peak interpolator, and
// the decimation plan for high sample rates.
package main

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-audio-loudness/internal/filter"
	"github.com/tphakala/go-audio-loudness/internal/pipeline"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// Impulse response length for the FFT; long enough for the 38 Hz high-pass to decay
	impulseLength = 1 << 16

	// True-peak interpolator design (matches the meter)
	interpolatorTapsPerPhase = 12
	interpolatorAttenuation  = 54.0
)

var (
	analysisRates  = []float64{44100, 48000, 96000}
	probeFreqs     = []float64{20, 38, 100, 500, 997, 1681, 4000, 10000, 16000}
	oversampling   = []int{2, 4}
	pipelineRates  = []float64{48000, 96000, 176400, 192000, 352800, 384000}
	maxResponseErr = 0.01 // dB
)

func main() {
	fmt.Println("=== K-weighting Response ===")
	for _, rate := range analysisRates {
		analyzeKWeighting(rate)
	}

	fmt.Println("\n=== True-peak Interpolator DC Gain ===")
	for _, factor := range oversampling {
		if err := analyzeInterpolator(factor); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}

	fmt.Println("\n=== Decimation Plan ===")
	for _, rate := range pipelineRates {
		if err := analyzePipeline(rate); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}
}

func analyzeKWeighting(rate float64) {
	kw := filter.KWeighting(rate)

	fmt.Printf("\n%.0f Hz\n", rate)
	fmt.Printf("  b: %+.14f %+.14f %+.14f\n", kw.Shelf.B0, kw.Shelf.B1, kw.Shelf.B2)
	fmt.Printf("  a: %+.14f %+.14f %+.14f (shelf)\n", 1.0, kw.Shelf.A1, kw.Shelf.A2)
	fmt.Printf("  a: %+.14f %+.14f %+.14f (high-pass)\n", 1.0, kw.HighPass.A1, kw.HighPass.A2)

	measured := fftResponseDB(kw, impulseLength)

	fmt.Printf("  %8s  %10s  %10s  %8s\n", "freq", "analytic", "fft", "delta")
	worst := 0.0
	for _, f := range probeFreqs {
		if f >= rate/2 {
			continue
		}
		want := kw.MagnitudeDB(f)
		got := responseAt(measured, rate, f)
		delta := got - want
		worst = max(worst, math.Abs(delta))
		fmt.Printf("  %8.0f  %+10.4f  %+10.4f  %+8.4f\n", f, want, got, delta)
	}

	status := "OK"
	if worst > maxResponseErr {
		status = "MISMATCH"
	}
	fmt.Printf("  worst delta %.5f dB: %s\n", worst, status)
}

// fftResponseDB runs an impulse through the K-weighting cascade and returns
// the magnitude spectrum in dB for bins 0..n/2.
func fftResponseDB(kw filter.KWeightingCoefficients, n int) []float64 {
	impulse := make([]float64, n)
	impulse[0] = 1

	shelf, highPass := kw.Cascade()
	shelf.ProcessInPlace(impulse)
	highPass.ProcessInPlace(impulse)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, impulse)

	response := make([]float64, len(coeffs))
	for i, c := range coeffs {
		response[i] = filter.MagnitudeDB(cmplx.Abs(c))
	}
	return response
}

// responseAt linearly interpolates a half spectrum of 2*(len-1) points at freq Hz.
func responseAt(response []float64, rate, freq float64) float64 {
	n := 2 * (len(response) - 1)
	pos := freq / rate * float64(n)
	i := int(pos)
	if i >= len(response)-1 {
		return response[len(response)-1]
	}
	frac := pos - float64(i)
	return response[i]*(1-frac) + response[i+1]*frac
}

func analyzeInterpolator(factor int) error {
	bank, err := filter.DesignInterpolator(filter.InterpolatorParams{
		Factor:       factor,
		TapsPerPhase: interpolatorTapsPerPhase,
		Attenuation:  interpolatorAttenuation,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n%dx oversampling: %d phases x %d taps, latency %d samples\n",
		factor, bank.Factor, bank.TapsPerPhase, bank.Latency())
	for phase, coeffs := range bank.Phases {
		var dc float64
		for _, c := range coeffs {
			dc += c
		}
		fmt.Printf("  Phase %d: DC gain = %.10f\n", phase, dc)
	}

	return nil
}

func analyzePipeline(rate float64) error {
	p, err := pipeline.BuildPipeline(rate)
	if err != nil {
		return err
	}

	fmt.Printf("  %6.0f Hz -> %6.0f Hz (factor %d, latency %d, segment %d samples):",
		rate, p.EffectiveRate(), p.GetDecimationFactor(), p.GetTotalLatency(), p.SegmentLength())
	for _, stage := range p.GetStages() {
		fmt.Printf(" %s", stage.Type)
		if stage.Type == pipeline.StageDecimate {
			fmt.Printf("[%d taps]", stage.FilterLength)
		}
	}
	fmt.Println()

	return nil
}
