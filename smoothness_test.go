package calsmooth

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-calsmooth/internal/testutil"
	"gonum.org/v1/gonum/floats"
)

const (
	testCommonPhase = 0.7
	testChannelStep = 10.0
)

// commonPhaseArray fills an array with positive amplitudes from amp, all
// sharing one phase, so neighbouring channels need no alignment.
func commonPhaseArray(t *testing.T, shape Shape, amp func(t, ant, ch, pol int) float64) *Array {
	t.Helper()
	arr, err := NewArray(shape)
	require.NoError(t, err)
	p := cmplx.Exp(complex(0, testCommonPhase))
	for tt := range shape.Intervals {
		for ant := range shape.Antennas {
			for ch := range shape.Channels {
				for pol := range shape.Pols {
					arr.Set(tt, ant, ch, pol, complex(amp(tt, ant, ch, pol), 0)*p)
				}
			}
		}
	}
	return arr
}

func filtered(t *testing.T, arr *Array, freqs []float64) (*Array, *Grid) {
	t.Helper()
	out, grid, err := FilterFlaggedChannels(arr, freqs)
	require.NoError(t, err)
	return out, grid
}

func TestSecondDifference_LinearIsZeroInside(t *testing.T) {
	freqs := floats.Span(make([]float64, testShape.Channels), 100, 140)
	arr := commonPhaseArray(t, testShape, func(_, ant, ch, pol int) float64 {
		return (1 + 0.5*float64(ant) + float64(pol)) * (2 + 0.3*freqs[ch])
	})
	arr, grid := filtered(t, arr, freqs)

	d2, err := SecondDifference(arr, grid)
	require.NoError(t, err)
	assert.Equal(t, arr.Shape(), d2.Shape())

	for ch := 1; ch < testShape.Channels-1; ch++ {
		c, err := d2.Channel(ch)
		require.NoError(t, err)
		testutil.AssertComplexNearZero(t, c.Data(), testutil.LooseTolerance, "channel %d", ch)
	}

	// Zero padding makes the edges rough.
	edge, err := d2.Channel(0)
	require.NoError(t, err)
	assert.Greater(t, cmplx.Abs(edge.Data()[0]), 0.1)
}

func TestSecondDifference_UniformGridIsThreePointStencil(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	amps := make([]float64, testShape.Len())
	for i := range amps {
		amps[i] = 0.5 + rng.Float64()
	}
	d := testShape.dims()
	arr := commonPhaseArray(t, testShape, func(tt, ant, ch, pol int) float64 {
		return amps[ravel([numAxes]int{tt, ant, ch, pol}, d)]
	})
	freqs := floats.Span(make([]float64, testShape.Channels), 0, testChannelStep*float64(testShape.Channels-1))
	arr, grid := filtered(t, arr, freqs)

	d2, err := SecondDifference(arr, grid)
	require.NoError(t, err)

	at := func(tt, ant, ch, pol int) complex128 {
		if ch < 0 || ch >= testShape.Channels {
			return 0
		}
		return arr.At(tt, ant, ch, pol)
	}
	h2 := complex(testChannelStep*testChannelStep, 0)
	for tt := range testShape.Intervals {
		for ant := range testShape.Antennas {
			for ch := range testShape.Channels {
				for pol := range testShape.Pols {
					want := (at(tt, ant, ch+1, pol) - 2*at(tt, ant, ch, pol) + at(tt, ant, ch-1, pol)) / h2
					testutil.AssertComplexInDelta(t, want, d2.At(tt, ant, ch, pol), testutil.DefaultTolerance)
				}
			}
		}
	}
}

func TestSecondDifference_MagnitudeInvariantToChannelPhases(t *testing.T) {
	freqs := []float64{1, 2, 4, 5, 9}
	arr, grid := filtered(t, randomArray(t, 43, testShape), freqs)
	rotated, err := Rotate(arr, PerChannelRotation(testutil.RandomPhases(44, testShape.Channels)))
	require.NoError(t, err)

	want, err := SecondDifference(arr, grid)
	require.NoError(t, err)
	got, err := SecondDifference(rotated, grid)
	require.NoError(t, err)

	testutil.AssertNoNaNOrInf(t, want.Data())
	for i := range want.Data() {
		assert.InDelta(t, cmplx.Abs(want.Data()[i]), cmplx.Abs(got.Data()[i]), testutil.LooseTolerance, "element %d", i)
	}
}

func TestSecondDifference_PartialFlagStaysLocal(t *testing.T) {
	shape := Shape{Intervals: 1, Antennas: 2, Channels: 4, Pols: 1}
	arr := randomArray(t, 45, shape)
	arr.Set(0, 0, 1, 0, cmplx.NaN())
	arr, grid := filtered(t, arr, []float64{0, 1, 2, 4})

	d2, err := SecondDifference(arr, grid)
	require.NoError(t, err)

	for ch := range shape.Channels {
		got := d2.At(0, 0, ch, 0)
		if ch <= 2 {
			assert.True(t, cmplx.IsNaN(got), "antenna 0 channel %d should be missing", ch)
		} else {
			assert.False(t, cmplx.IsNaN(got), "antenna 0 channel %d", ch)
		}
		assert.False(t, cmplx.IsNaN(d2.At(0, 1, ch, 0)), "antenna 1 channel %d", ch)
	}
}

func TestSecondDifference_Errors(t *testing.T) {
	arr, grid := filtered(t, randomArray(t, 46, testShape), testFreqs(testShape.Channels))

	_, err := SecondDifference(nil, grid)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = SecondDifference(arr, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	sub, err := arr.Channel(0)
	require.NoError(t, err)
	_, err = SecondDifference(sub, grid)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	single, singleGrid := filtered(t, sub, []float64{150e6})
	_, err = SecondDifference(single, singleGrid)
	assert.ErrorIs(t, err, ErrTooFewChannels)
}

func BenchmarkSecondDifference(b *testing.B) {
	shape := Shape{Intervals: 1, Antennas: 128, Channels: 768, Pols: 4}
	arr := randomArray(b, 1, shape)
	freqs := floats.Span(make([]float64, shape.Channels), 167e6, 197e6)
	arr, grid, err := FilterFlaggedChannels(arr, freqs)
	require.NoError(b, err)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = SecondDifference(arr, grid)
	}
}
