package calsmooth

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DivideByAntenna returns arr with every antenna divided by antenna ref,
// element by element, so that ref becomes unity.
func DivideByAntenna(arr *Array, ref int) (*Array, error) {
	if arr == nil {
		return nil, fmt.Errorf("%w: nil array", ErrShapeMismatch)
	}
	if ref < 0 || ref >= arr.shape.Antennas {
		return nil, fmt.Errorf("%w: antenna %d out of range [0, %d)", ErrInvalidReference, ref, arr.shape.Antennas)
	}
	out := arr.Clone()
	for t := range arr.shape.Intervals {
		for ant := range arr.shape.Antennas {
			for ch := range arr.shape.Channels {
				for pol := range arr.shape.Pols {
					out.Set(t, ant, ch, pol, arr.At(t, ant, ch, pol)/arr.At(t, ref, ch, pol))
				}
			}
		}
	}
	return out, nil
}

// DivideByAverage returns arr divided by the average antenna. The average is
// weighted by |g|^-2: its phase is that of the weighted complex mean and its
// amplitude is the weighted mean amplitude.
func DivideByAverage(arr *Array) (*Array, error) {
	if arr == nil {
		return nil, fmt.Errorf("%w: nil array", ErrShapeMismatch)
	}
	weights := inverseVarianceWeights(arr, nil)
	axes := AxesOf(AxisAntenna)

	avg := arr.reduceMean(weights, axes)
	amps := &Array{shape: arr.shape, data: make([]complex128, len(arr.data))}
	for i, v := range arr.data {
		amps.data[i] = complex(cmplx.Abs(v), 0)
		if cmplx.IsNaN(v) {
			amps.data[i] = cmplx.NaN()
		}
	}
	ampAvg := amps.reduceMean(weights, axes)

	for i, v := range avg.data {
		avg.data[i] = v / complex(cmplx.Abs(v), 0) * ampAvg.data[i]
	}
	return divideBroadcast(arr, avg), nil
}

// DivideByFlavor returns arr divided by the |g|^-2 weighted average over
// time of every antenna whose flavor matches. flavors lists the receiver
// flavor of each antenna in array order.
func DivideByFlavor(arr *Array, flavors []string, flavor string) (*Array, error) {
	if arr == nil {
		return nil, fmt.Errorf("%w: nil array", ErrShapeMismatch)
	}
	if len(flavors) != arr.shape.Antennas {
		return nil, fmt.Errorf("%w: %d flavors for %d antennas", ErrShapeMismatch, len(flavors), arr.shape.Antennas)
	}
	selected := make([]bool, len(flavors))
	found := false
	for i, f := range flavors {
		selected[i] = f == flavor
		found = found || selected[i]
	}
	if !found {
		return nil, fmt.Errorf("%w: flavor %q not found", ErrInvalidReference, flavor)
	}

	weights := inverseVarianceWeights(arr, selected)
	avg := arr.reduceMean(weights, AxesOf(AxisTime, AxisAntenna))
	return divideBroadcast(arr, avg), nil
}

// inverseVarianceWeights returns |g|^-2 per element. When selected is not
// nil, antennas outside the selection get zero weight.
func inverseVarianceWeights(arr *Array, selected []bool) []float64 {
	d := arr.shape.dims()
	w := make([]float64, len(arr.data))
	for i, v := range arr.data {
		if selected != nil && !selected[unravel(i, d)[AxisAntenna]] {
			continue
		}
		w[i] = math.Pow(cmplx.Abs(v), inverseVariancePower)
		if cmplx.IsNaN(v) {
			w[i] = math.NaN()
		}
	}
	return w
}

// divideBroadcast divides arr by a keep-dims reduced array.
func divideBroadcast(arr, den *Array) *Array {
	out := arr.Clone()
	full := arr.shape.dims()
	reduced := den.shape.dims()
	for i := range out.data {
		out.data[i] /= den.data[broadcastIndex(i, full, reduced)]
	}
	return out
}

// AmplitudeCeiling returns twice the median amplitude of the first and last
// polarizations, counting missing values as zero. It gives a shared upper
// limit for amplitude displays.
func AmplitudeCeiling(arr *Array) (float64, error) {
	if arr == nil {
		return 0, fmt.Errorf("%w: nil array", ErrShapeMismatch)
	}
	pols := []int{0, arr.shape.Pols - 1}
	amps := make([]float64, 0, arr.shape.Intervals*arr.shape.Antennas*arr.shape.Channels*len(pols))
	for t := range arr.shape.Intervals {
		for ant := range arr.shape.Antennas {
			for ch := range arr.shape.Channels {
				for _, pol := range pols {
					v := arr.At(t, ant, ch, pol)
					if cmplx.IsNaN(v) {
						amps = append(amps, 0)
						continue
					}
					amps = append(amps, cmplx.Abs(v))
				}
			}
		}
	}
	return ampCeilingFactor * median(amps), nil
}

// median sorts values in place and returns their median, averaging the two
// middle values when the count is even.
func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	return stat.Mean(values[(n-1)/2:n/2+1], nil)
}
