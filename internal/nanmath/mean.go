// Package nanmath provides NaN-aware weighted means.
//
// A sample is missing when its value or its weight is NaN. Missing samples
// are excluded from both the weighted sum and the weight total, so a slice
// with no usable samples has a NaN mean rather than a zero one.
package nanmath

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/go-calsmooth/internal/simdops"
)

// Accumulator gathers the usable samples of one reduction slice into
// compacted buffers and reduces them with SIMD dot products.
//
// An Accumulator is reused across slices with Reset; it is not safe for
// concurrent use.
type Accumulator struct {
	re  []float64
	im  []float64
	w   []float64
	ops *simdops.Ops
}

// NewAccumulator returns an accumulator with room for capacity samples.
func NewAccumulator(capacity int) *Accumulator {
	return &Accumulator{
		re:  make([]float64, 0, capacity),
		im:  make([]float64, 0, capacity),
		w:   make([]float64, 0, capacity),
		ops: simdops.Float64Ops(),
	}
}

// Reset discards all gathered samples, keeping the buffers.
func (a *Accumulator) Reset() {
	a.re = a.re[:0]
	a.im = a.im[:0]
	a.w = a.w[:0]
}

// Len returns the number of usable samples gathered since the last Reset.
func (a *Accumulator) Len() int {
	return len(a.w)
}

// AddComplex gathers v with weight w unless either is missing.
// Infinite weights are treated as missing too.
func (a *Accumulator) AddComplex(v complex128, w float64) {
	if cmplx.IsNaN(v) || !usableWeight(w) {
		return
	}
	a.re = append(a.re, real(v))
	a.im = append(a.im, imag(v))
	a.w = append(a.w, w)
}

// AddReal gathers v with weight w unless either is missing.
func (a *Accumulator) AddReal(v, w float64) {
	if math.IsNaN(v) || !usableWeight(w) {
		return
	}
	a.re = append(a.re, v)
	a.im = append(a.im, 0)
	a.w = append(a.w, w)
}

// ComplexMean returns the weighted mean of the gathered samples,
// or a complex NaN when nothing usable was gathered.
func (a *Accumulator) ComplexMean() complex128 {
	total, ok := a.weightTotal()
	if !ok {
		return cmplx.NaN()
	}
	re := a.ops.DotProductUnsafe(a.re, a.w) / total
	im := a.ops.DotProductUnsafe(a.im, a.w) / total
	return complex(re, im)
}

// Mean returns the weighted mean of the real parts of the gathered samples,
// or NaN when nothing usable was gathered.
func (a *Accumulator) Mean() float64 {
	total, ok := a.weightTotal()
	if !ok {
		return math.NaN()
	}
	return a.ops.DotProductUnsafe(a.re, a.w) / total
}

func (a *Accumulator) weightTotal() (float64, bool) {
	if len(a.w) == 0 {
		return 0, false
	}
	total := a.ops.Sum(a.w)
	if total == 0 {
		return 0, false
	}
	return total, true
}

func usableWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0)
}

// ComplexMean returns the NaN-aware weighted mean of values.
// A nil weights slice means unit weights; otherwise it must match values in length.
func ComplexMean(values []complex128, weights []float64) complex128 {
	acc := NewAccumulator(len(values))
	for i, v := range values {
		acc.AddComplex(v, weightAt(weights, i))
	}
	return acc.ComplexMean()
}

// Mean returns the NaN-aware weighted mean of values.
// A nil weights slice means unit weights; otherwise it must match values in length.
func Mean(values, weights []float64) float64 {
	acc := NewAccumulator(len(values))
	for i, v := range values {
		acc.AddReal(v, weightAt(weights, i))
	}
	return acc.Mean()
}

func weightAt(weights []float64, i int) float64 {
	if weights == nil {
		return 1
	}
	return weights[i]
}
