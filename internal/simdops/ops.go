// Package simdops exposes the SIMD kernels used by the NaN-aware reductions.
//
// Reductions in this module only ever run on compacted float64 buffers (real
// parts, imaginary parts and weights with missing samples removed), so a single
// float64 operation table is enough.
package simdops

import (
	"github.com/tphakala/simd/f64"
)

// Ops provides SIMD-accelerated float64 operations.
// Function pointers keep call sites independent of the kernel package.
type Ops struct {
	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []float64) float64

	// Sum returns the sum of all elements.
	Sum func(a []float64) float64
}

var ops64 = Ops{
	DotProductUnsafe: f64.DotProductUnsafe,
	Sum:              f64.Sum,
}

// Float64Ops returns the float64 SIMD operations.
func Float64Ops() *Ops {
	return &ops64
}
