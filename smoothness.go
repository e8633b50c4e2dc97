package calsmooth

import (
	"fmt"
)

// SecondDifference returns the second-order central finite difference of arr
// along the frequency axis of grid, built from rotation-invariant first
// differences so that the arbitrary phase of each channel does not count as
// roughness.
//
// The axis is padded with an all-zero channel at each end, placed one edge
// gap beyond the first and last frequency. For every channel n, with gaps
// hl = f[n]-f[n-1] and hr = f[n+1]-f[n]:
//
//	left  = MinDiff(x[n], x[n-1]) / hl
//	right = -MinDiff(x[n], x[n+1]) / hr
//	d2[n] = (right - left) / ((hl + hr) / 2)
//
// Both first differences are taken in the frame of channel n and each pair of
// channels is aligned by one rotation over time, antenna and polarization.
// On a uniform grid this is the three-point stencil (x[n+1]-2x[n]+x[n-1])/h².
//
// A missing element only makes its own and its neighbours' outputs missing.
// Channels with no data at all must already be removed, which the Grid
// argument guarantees.
func SecondDifference(arr *Array, grid *Grid) (*Array, error) {
	if arr == nil || grid == nil {
		return nil, fmt.Errorf("%w: nil array or grid", ErrShapeMismatch)
	}
	if err := grid.checkArray(arr); err != nil {
		return nil, err
	}
	n := arr.shape.Channels
	if n < minSmoothChannels {
		return nil, fmt.Errorf("%w: %d channels, need at least %d", ErrTooFewChannels, n, minSmoothChannels)
	}

	// Extended axis: index k holds real channel k-1.
	freqs := make([]float64, n+2)
	copy(freqs[1:], grid.freqs)
	freqs[0] = grid.freqs[0] - (grid.freqs[1] - grid.freqs[0])
	freqs[n+1] = grid.freqs[n-1] + (grid.freqs[n-1] - grid.freqs[n-2])

	zero, err := NewArray(arr.shape.withChannels(1))
	if err != nil {
		return nil, err
	}
	slices := make([]*Array, n+2)
	slices[0], slices[n+1] = zero, zero
	for ch := range n {
		if slices[ch+1], err = arr.Channel(ch); err != nil {
			return nil, err
		}
	}

	out := &Array{shape: arr.shape, data: make([]complex128, len(arr.data))}
	for k := 1; k <= n; k++ {
		left, err := MinDiff(slices[k], slices[k-1], AllAxes)
		if err != nil {
			return nil, err
		}
		right, err := MinDiff(slices[k], slices[k+1], AllAxes)
		if err != nil {
			return nil, err
		}
		hl := freqs[k] - freqs[k-1]
		hr := freqs[k+1] - freqs[k]
		h := (hl + hr) / halfDivisor
		for i := range left.data {
			l := divReal(left.data[i], hl)
			r := divReal(-right.data[i], hr)
			left.data[i] = divReal(r-l, h)
		}
		if err := out.SetChannel(k-1, left); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func divReal(z complex128, d float64) complex128 {
	return complex(real(z)/d, imag(z)/d)
}
