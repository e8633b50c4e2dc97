package simdops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/simd/f64"
)

func TestFloat64Ops_MatchesScalar(t *testing.T) {
	ops := Float64Ops()
	a := []float64{1, 2, 3, 4, 5, 6, 7}
	b := []float64{0.5, 0.25, 2, 1, 0, -1, 3}

	var dot, sum float64
	for i := range a {
		dot += a[i] * b[i]
		sum += a[i]
	}

	assert.InDelta(t, dot, ops.DotProductUnsafe(a, b), 1e-12)
	assert.InDelta(t, sum, ops.Sum(a), 1e-12)
}

// BenchmarkDirectF64DotProduct measures direct SIMD call overhead.
func BenchmarkDirectF64DotProduct(b *testing.B) {
	a := make([]float64, 64)
	c := make([]float64, 64)
	for i := range a {
		a[i] = float64(i) * 0.01
		c[i] = float64(i) * 0.02
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = f64.DotProductUnsafe(a, c)
	}
}

// BenchmarkIndirectF64DotProduct measures indirect call through Ops struct.
func BenchmarkIndirectF64DotProduct(b *testing.B) {
	ops := Float64Ops()
	a := make([]float64, 64)
	c := make([]float64, 64)
	for i := range a {
		a[i] = float64(i) * 0.01
		c[i] = float64(i) * 0.02
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = ops.DotProductUnsafe(a, c)
	}
}
