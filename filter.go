package calsmooth

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Grid is the frequency axis left after FilterFlaggedChannels has removed
// fully flagged channels. It can only be obtained from FilterFlaggedChannels,
// so holding a Grid means the filtering step has run.
type Grid struct {
	freqs    []float64
	index    []int
	original int
}

// Len returns the number of retained channels.
func (g *Grid) Len() int {
	return len(g.freqs)
}

// Frequencies returns a copy of the retained frequency coordinates.
func (g *Grid) Frequencies() []float64 {
	out := make([]float64, len(g.freqs))
	copy(out, g.freqs)
	return out
}

// Index returns, for each retained channel, its index in the unfiltered array.
func (g *Grid) Index() []int {
	out := make([]int, len(g.index))
	copy(out, g.index)
	return out
}

// OriginalChannels returns the channel count before filtering.
func (g *Grid) OriginalChannels() int {
	return g.original
}

// Select reduces another array laid out on the unfiltered channel axis, such
// as a model, to the retained channels.
func (g *Grid) Select(arr *Array) (*Array, error) {
	if arr == nil {
		return nil, fmt.Errorf("%w: nil array", ErrShapeMismatch)
	}
	if arr.shape.Channels != g.original {
		return nil, fmt.Errorf("%w: array has %d channels, grid was filtered from %d",
			ErrShapeMismatch, arr.shape.Channels, g.original)
	}
	return arr.selectChannels(g.index), nil
}

func (g *Grid) checkArray(arr *Array) error {
	if arr.shape.Channels != len(g.freqs) {
		return fmt.Errorf("%w: array has %d channels, grid has %d",
			ErrShapeMismatch, arr.shape.Channels, len(g.freqs))
	}
	return nil
}

// FilterFlaggedChannels removes every channel whose values are all missing
// across time, antenna and polarization, together with its frequency entry.
// It returns the reduced array and a Grid holding the retained frequencies and
// the map back to original channel indices.
func FilterFlaggedChannels(arr *Array, freqs []float64) (*Array, *Grid, error) {
	if arr == nil {
		return nil, nil, fmt.Errorf("%w: nil array", ErrShapeMismatch)
	}
	if len(freqs) != arr.shape.Channels {
		return nil, nil, fmt.Errorf("%w: %d frequencies for %d channels",
			ErrShapeMismatch, len(freqs), arr.shape.Channels)
	}
	if err := validateFrequencies(freqs); err != nil {
		return nil, nil, err
	}

	perChannel := arr.reduceMean(nil, AllAxes.Without(AxisChannel))
	grid := &Grid{original: arr.shape.Channels}
	for ch, m := range perChannel.data {
		if cmplx.IsNaN(m) {
			continue
		}
		grid.index = append(grid.index, ch)
		grid.freqs = append(grid.freqs, freqs[ch])
	}
	if len(grid.index) == 0 {
		return nil, nil, fmt.Errorf("%w: all %d channels are flagged", ErrTooFewChannels, arr.shape.Channels)
	}
	return arr.selectChannels(grid.index), grid, nil
}

func validateFrequencies(freqs []float64) error {
	if floats.HasNaN(freqs) {
		return fmt.Errorf("%w: NaN frequency", ErrInvalidFrequencies)
	}
	for i, f := range freqs {
		if math.IsInf(f, 0) {
			return fmt.Errorf("%w: infinite frequency at channel %d", ErrInvalidFrequencies, i)
		}
		if i > 0 && f <= freqs[i-1] {
			return fmt.Errorf("%w: frequencies not strictly increasing at channel %d (%v <= %v)",
				ErrInvalidFrequencies, i, f, freqs[i-1])
		}
	}
	return nil
}
