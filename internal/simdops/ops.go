// Package simdops exposes the SIMD kernels used by the measurement hot paths.
//
// Everything downstream of the public API runs in float64, so only the f64
// kernels are bound. Function pointers keep call sites independent of the
// simd package and let PGO devirtualize them in hot loops.
package simdops

import (
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// Ops provides SIMD-accelerated float64 operations.
type Ops struct {
	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []float64) float64

	// ConvolveValidMulti computes valid convolution for multiple kernels.
	ConvolveValidMulti func(dsts [][]float64, signal []float64, kernels [][]float64)

	// Interleave2 interleaves two slices: dst[0]=a[0], dst[1]=b[0], dst[2]=a[1], ...
	Interleave2 func(dst, a, b []float64)

	// Sum returns the sum of all elements.
	Sum func(a []float64) float64

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)
}

var ops64 = Ops{
	DotProductUnsafe:   f64.DotProductUnsafe,
	ConvolveValidMulti: f64.ConvolveValidMulti,
	Interleave2:        f64.Interleave2,
	Sum:                f64.Sum,
	Scale:              f64.Scale,
}

// Float64Ops returns the float64 SIMD operations.
func Float64Ops() *Ops {
	return &ops64
}

// Energy returns the sum of squares of x.
func (o *Ops) Energy(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return o.DotProductUnsafe(x, x)
}

// CPUInfo describes the instruction set the kernels dispatch to.
func CPUInfo() string {
	return cpu.Info()
}
