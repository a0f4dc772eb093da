package engine

import "math"

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// processChunked feeds input through process in pieces of size samples and
// returns a copy of the concatenated output.
func processChunked(process func([]float64) []float64, input []float64, size int) []float64 {
	var out []float64
	for start := 0; start < len(input); start += size {
		end := min(start+size, len(input))
		out = append(out, process(input[start:end])...)
	}
	return out
}
