package testutil

import "math"

// Sine returns n samples of a sine wave with the given peak amplitude.
func Sine(freq, amplitude, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	w := 2 * math.Pi * freq / sampleRate
	for i := range n {
		out[i] = amplitude * math.Sin(w*float64(i))
	}
	return out
}

// SineDB is Sine with the peak amplitude given in dBFS.
func SineDB(freq, dbfs, sampleRate float64, n int) []float64 {
	return Sine(freq, math.Pow(10, dbfs/20), sampleRate, n)
}

// Channels returns count copies of samples, one per channel.
func Channels(samples []float64, count int) [][]float64 {
	out := make([][]float64, count)
	for ch := range count {
		out[ch] = append([]float64(nil), samples...)
	}
	return out
}

// Silence returns count channels of n zero samples.
func Silence(count, n int) [][]float64 {
	out := make([][]float64, count)
	for ch := range count {
		out[ch] = make([]float64, n)
	}
	return out
}

// Chunks splits every channel into consecutive pieces of size frames.
// The final piece may be shorter.
func Chunks(channels [][]float64, size int) [][][]float64 {
	if len(channels) == 0 {
		return nil
	}
	total := len(channels[0])
	var out [][][]float64
	for start := 0; start < total; start += size {
		end := min(start+size, total)
		piece := make([][]float64, len(channels))
		for ch := range channels {
			piece[ch] = channels[ch][start:end]
		}
		out = append(out, piece)
	}
	return out
}
