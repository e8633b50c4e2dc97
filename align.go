package calsmooth

import (
	"fmt"
	"math"
	"math/cmplx"
)

// OptimalRotation returns the rotation θ that minimises the reduction of
// |a - exp(iθ)·b|² over axes, given in closed form by
//
//	θ = arg(mean(a · conj(b)))
//
// The mean skips positions where a or b is missing; a reduction slice with
// nothing left yields a NaN angle. The kind of the returned rotation follows
// the reduction: AllAxes gives a scalar rotation, every axis except
// AxisChannel gives a per-channel rotation, and any other set gives an
// elementwise rotation expanded to the full shape.
func OptimalRotation(a, b *Array, axes Axes) (Rotation, error) {
	if err := sameShape(a, b); err != nil {
		return Rotation{}, err
	}
	if err := axes.validate(); err != nil {
		return Rotation{}, err
	}

	prod := &Array{shape: a.shape, data: make([]complex128, len(a.data))}
	for i := range a.data {
		if cmplx.IsNaN(a.data[i]) || cmplx.IsNaN(b.data[i]) {
			prod.data[i] = cmplx.NaN()
			continue
		}
		prod.data[i] = a.data[i] * cmplx.Conj(b.data[i])
	}
	mean := prod.reduceMean(nil, axes)

	angles := make([]float64, len(mean.data))
	for i, m := range mean.data {
		angles[i] = phaseOf(m)
	}

	switch axes {
	case AllAxes:
		return ScalarRotation(angles[0]), nil
	case AllAxes.Without(AxisChannel):
		return PerChannelRotation(angles), nil
	}

	full := a.shape.dims()
	reduced := mean.shape.dims()
	expanded := make([]float64, a.shape.Len())
	for i := range expanded {
		expanded[i] = angles[broadcastIndex(i, full, reduced)]
	}
	return ElementwiseRotation(a.shape, expanded), nil
}

// phaseOf returns arg(z), or NaN when z is missing.
func phaseOf(z complex128) float64 {
	if cmplx.IsNaN(z) {
		return math.NaN()
	}
	return cmplx.Phase(z)
}

// MinDiff returns the rotation-invariant difference
//
//	a - rotate(b, OptimalRotation(a, b, axes))
//
// which is unchanged when b is multiplied by any unit-modulus constant.
func MinDiff(a, b *Array, axes Axes) (*Array, error) {
	rot, err := OptimalRotation(a, b, axes)
	if err != nil {
		return nil, err
	}
	aligned, err := Rotate(b, rot)
	if err != nil {
		return nil, err
	}
	for i := range aligned.data {
		aligned.data[i] = a.data[i] - aligned.data[i]
	}
	return aligned, nil
}

// AlignChannels returns a copy of arr in which every channel is rotated onto
// its aligned left neighbour, removing channel-to-channel phase ambiguity.
// Channels with no usable overlap are left as they are and the next channel
// is aligned to the last usable one.
func AlignChannels(arr *Array) (*Array, error) {
	if arr == nil {
		return nil, fmt.Errorf("%w: nil array", ErrShapeMismatch)
	}
	out := arr.Clone()
	prev, err := out.Channel(0)
	if err != nil {
		return nil, err
	}
	for ch := 1; ch < out.shape.Channels; ch++ {
		cur, err := out.Channel(ch)
		if err != nil {
			return nil, err
		}
		rot, err := OptimalRotation(prev, cur, AllAxes)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(rot.Angle()) {
			continue
		}
		if err := RotateInPlace(out, ChannelRotation(rot.Angle(), ch)); err != nil {
			return nil, err
		}
		if prev, err = out.Channel(ch); err != nil {
			return nil, err
		}
	}
	return out, nil
}
