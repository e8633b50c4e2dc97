package calsmooth

import (
	"fmt"
	"math"
)

// RotationKind tags how a Rotation broadcasts against an array.
type RotationKind int

const (
	// RotationScalar applies one angle to every element.
	RotationScalar RotationKind = iota
	// RotationChannel applies one angle to a single frequency channel.
	RotationChannel
	// RotationPerChannel applies one angle per frequency channel.
	RotationPerChannel
	// RotationElementwise applies one angle per element.
	RotationElementwise
)

func (k RotationKind) String() string {
	switch k {
	case RotationScalar:
		return "scalar"
	case RotationChannel:
		return "channel"
	case RotationPerChannel:
		return "per-channel"
	case RotationElementwise:
		return "elementwise"
	default:
		return fmt.Sprintf("RotationKind(%d)", int(k))
	}
}

// Rotation is a unit-modulus phase correction exp(i·θ).
// The zero value is the identity scalar rotation.
type Rotation struct {
	kind    RotationKind
	angle   float64
	channel int
	angles  []float64
	shape   Shape
}

// ScalarRotation rotates every element by theta radians.
func ScalarRotation(theta float64) Rotation {
	return Rotation{kind: RotationScalar, angle: theta}
}

// ChannelRotation rotates only frequency channel ch by theta radians.
func ChannelRotation(theta float64, ch int) Rotation {
	return Rotation{kind: RotationChannel, angle: theta, channel: ch}
}

// PerChannelRotation rotates channel i by angles[i], broadcast across the
// other axes.
func PerChannelRotation(angles []float64) Rotation {
	return Rotation{kind: RotationPerChannel, angles: angles}
}

// ElementwiseRotation rotates each element of an array of the given shape by
// the matching row-major entry of angles.
func ElementwiseRotation(shape Shape, angles []float64) Rotation {
	return Rotation{kind: RotationElementwise, angles: angles, shape: shape}
}

// Kind returns the broadcasting tag.
func (r Rotation) Kind() RotationKind {
	return r.kind
}

// Angle returns the angle of a scalar or channel rotation, and NaN for the
// other kinds.
func (r Rotation) Angle() float64 {
	if r.kind == RotationScalar || r.kind == RotationChannel {
		return r.angle
	}
	return math.NaN()
}

// Channel returns the target channel of a channel rotation, or -1.
func (r Rotation) Channel() int {
	if r.kind == RotationChannel {
		return r.channel
	}
	return -1
}

// Angles returns a copy of the per-channel or elementwise angles.
func (r Rotation) Angles() []float64 {
	if r.angles == nil {
		return nil
	}
	out := make([]float64, len(r.angles))
	copy(out, r.angles)
	return out
}

// Inverse returns the rotation that undoes r.
func (r Rotation) Inverse() Rotation {
	inv := r
	inv.angle = -r.angle
	if r.angles != nil {
		inv.angles = make([]float64, len(r.angles))
		for i, a := range r.angles {
			inv.angles[i] = -a
		}
	}
	return inv
}

// check validates r against the array shape it is about to be applied to.
func (r Rotation) check(shape Shape) error {
	switch r.kind {
	case RotationScalar:
		return nil
	case RotationChannel:
		if r.channel < 0 || r.channel >= shape.Channels {
			return fmt.Errorf("%w: channel %d out of range [0, %d)",
				ErrUnsupportedRotationShape, r.channel, shape.Channels)
		}
	case RotationPerChannel:
		if len(r.angles) != shape.Channels {
			return fmt.Errorf("%w: %d per-channel angles for %d channels",
				ErrUnsupportedRotationShape, len(r.angles), shape.Channels)
		}
	case RotationElementwise:
		if r.shape != shape || len(r.angles) != shape.Len() {
			return fmt.Errorf("%w: elementwise rotation of shape %v (%d angles) for array of shape %v",
				ErrUnsupportedRotationShape, r.shape, len(r.angles), shape)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedRotationShape, r.kind)
	}
	return nil
}

// phasor returns exp(i·theta). A NaN angle yields a NaN phasor.
func phasor(theta float64) complex128 {
	s, c := math.Sincos(theta)
	return complex(c, s)
}

// Rotate returns a copy of arr multiplied by the phasor of r.
func Rotate(arr *Array, r Rotation) (*Array, error) {
	if arr == nil {
		return nil, fmt.Errorf("%w: nil array", ErrShapeMismatch)
	}
	out := arr.Clone()
	if err := RotateInPlace(out, r); err != nil {
		return nil, err
	}
	return out, nil
}

// RotateInPlace multiplies arr by the phasor of r. Nothing is written when r
// does not fit the shape of arr.
func RotateInPlace(arr *Array, r Rotation) error {
	if arr == nil {
		return fmt.Errorf("%w: nil array", ErrShapeMismatch)
	}
	if err := r.check(arr.shape); err != nil {
		return err
	}

	d := arr.shape.dims()
	switch r.kind {
	case RotationScalar:
		p := phasor(r.angle)
		for i := range arr.data {
			arr.data[i] *= p
		}
	case RotationChannel:
		p := phasor(r.angle)
		for i := range arr.data {
			if unravel(i, d)[AxisChannel] == r.channel {
				arr.data[i] *= p
			}
		}
	case RotationPerChannel:
		ps := make([]complex128, len(r.angles))
		for ch, theta := range r.angles {
			ps[ch] = phasor(theta)
		}
		for i := range arr.data {
			arr.data[i] *= ps[unravel(i, d)[AxisChannel]]
		}
	case RotationElementwise:
		for i, theta := range r.angles {
			arr.data[i] *= phasor(theta)
		}
	}
	return nil
}
