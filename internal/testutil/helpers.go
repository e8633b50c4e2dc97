// Package testutil provides reusable test helpers for calibration-solution tests.
package testutil

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	LooseTolerance   = 1e-8
	AngleTolerance   = 1e-9
)

// RandomComplex returns n complex samples with real and imaginary parts
// uniform in [-1, 1), generated from a fixed seed.
func RandomComplex(seed int64, n int) []complex128 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]complex128, n)
	for i := range out {
		out[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	return out
}

// RandomPhases returns n angles uniform in [-π, π), generated from a fixed seed.
func RandomPhases(seed int64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * math.Pi
	}
	return out
}

// AssertComplexInDelta verifies that |expected - actual| <= tolerance.
func AssertComplexInDelta(t testing.TB, expected, actual complex128, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if d := cmplx.Abs(expected - actual); d > tolerance || math.IsNaN(d) {
		return assert.Fail(t, fmt.Sprintf("complex values differ: expected %v, actual %v (|diff|=%e, tolerance %e)",
			expected, actual, d, tolerance), msgAndArgs...)
	}
	return true
}

// AssertComplexSliceInDelta verifies two complex slices element by element.
// NaN entries must line up: a missing expected value requires a missing actual value.
func AssertComplexSliceInDelta(t testing.TB, expected, actual []complex128, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if cmplx.IsNaN(expected[i]) {
			if !cmplx.IsNaN(actual[i]) {
				return assert.Fail(t, fmt.Sprintf("expected NaN: s[%d]=%v", i, actual[i]), msgAndArgs...)
			}
			continue
		}
		if d := cmplx.Abs(expected[i] - actual[i]); d > tolerance || math.IsNaN(d) {
			return assert.Fail(t, fmt.Sprintf("complex slices differ: s[%d] expected %v, actual %v (|diff|=%e)",
				i, expected[i], actual[i], d), msgAndArgs...)
		}
	}
	return true
}

// AssertComplexNearZero verifies that every element has magnitude <= tolerance.
func AssertComplexNearZero(t testing.TB, s []complex128, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if m := cmplx.Abs(v); m > tolerance || math.IsNaN(m) {
			return assert.Fail(t, fmt.Sprintf("value not near zero: s[%d]=%v (|s|=%e)", i, v, m), msgAndArgs...)
		}
	}
	return true
}

// AssertAllNaN verifies that every element is a complex NaN.
func AssertAllNaN(t testing.TB, s []complex128, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if !cmplx.IsNaN(v) {
			return assert.Fail(t, fmt.Sprintf("expected NaN: s[%d]=%v", i, v), msgAndArgs...)
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t testing.TB, s []complex128, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if cmplx.IsNaN(v) {
			return assert.Fail(t, fmt.Sprintf("found NaN: s[%d]", i), msgAndArgs...)
		}
		if cmplx.IsInf(v) {
			return assert.Fail(t, fmt.Sprintf("found Inf: s[%d]", i), msgAndArgs...)
		}
	}
	return true
}

// AssertAngleInDelta verifies two angles agree modulo 2π.
func AssertAngleInDelta(t testing.TB, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	d := math.Remainder(expected-actual, 2*math.Pi)
	if math.Abs(d) > tolerance || math.IsNaN(d) {
		return assert.Fail(t, fmt.Sprintf("angles differ: expected %f, actual %f (wrapped diff %e)",
			expected, actual, d), msgAndArgs...)
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t testing.TB, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	if relError > tolerance || math.IsNaN(relError) {
		return assert.Fail(t, fmt.Sprintf("relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
			relError, tolerance, expected, actual), msgAndArgs...)
	}
	return true
}
