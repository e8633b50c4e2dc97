package calsmooth

import (
	"fmt"
)

// Axis names one dimension of a calibration array.
type Axis int

const (
	// AxisTime indexes solution time intervals.
	AxisTime Axis = iota
	// AxisAntenna indexes antennas (tiles).
	AxisAntenna
	// AxisChannel indexes frequency channels.
	AxisChannel
	// AxisPol indexes polarization products (XX, XY, YX, YY).
	AxisPol
)

func (a Axis) String() string {
	switch a {
	case AxisTime:
		return "time"
	case AxisAntenna:
		return "antenna"
	case AxisChannel:
		return "channel"
	case AxisPol:
		return "pol"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Axes is a set of axes to reduce over.
type Axes uint8

// AllAxes reduces over the whole array.
const AllAxes Axes = 1<<numAxes - 1

// AxesOf returns the set containing the given axes.
func AxesOf(axes ...Axis) Axes {
	var s Axes
	for _, a := range axes {
		s |= 1 << uint(a)
	}
	return s
}

// Has reports whether a is in the set.
func (s Axes) Has(a Axis) bool {
	return s&(1<<uint(a)) != 0
}

// Without returns the set with a removed.
func (s Axes) Without(a Axis) Axes {
	return s &^ (1 << uint(a))
}

func (s Axes) validate() error {
	if s&^AllAxes != 0 {
		return fmt.Errorf("%w: unknown axis in set %#b", ErrShapeMismatch, uint8(s))
	}
	return nil
}

// Shape holds the four axis lengths of a calibration array,
// as reported by the solution file reader.
type Shape struct {
	Intervals int
	Antennas  int
	Channels  int
	Pols      int
}

// Len returns the number of elements in an array of this shape.
func (s Shape) Len() int {
	return s.Intervals * s.Antennas * s.Channels * s.Pols
}

// Validate checks that every axis has at least one element.
func (s Shape) Validate() error {
	if s.Intervals < 1 || s.Antennas < 1 || s.Channels < 1 || s.Pols < 1 {
		return fmt.Errorf("%w: axis lengths must be positive, got %v", ErrShapeMismatch, s)
	}
	return nil
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", s.Intervals, s.Antennas, s.Channels, s.Pols)
}

func (s Shape) dims() [numAxes]int {
	return [numAxes]int{s.Intervals, s.Antennas, s.Channels, s.Pols}
}

func shapeOf(d [numAxes]int) Shape {
	return Shape{Intervals: d[0], Antennas: d[1], Channels: d[2], Pols: d[3]}
}

// reduced returns the shape left after reducing over axes, keeping each
// reduced axis with length one so the result broadcasts against s.
func (s Shape) reduced(axes Axes) Shape {
	d := s.dims()
	for i := range d {
		if axes.Has(Axis(i)) {
			d[i] = 1
		}
	}
	return shapeOf(d)
}

// withChannels returns s with the channel axis resized.
func (s Shape) withChannels(n int) Shape {
	s.Channels = n
	return s
}

// ravel converts coordinates to a row-major flat index.
func ravel(c, d [numAxes]int) int {
	return ((c[0]*d[1]+c[1])*d[2]+c[2])*d[3] + c[3]
}

// unravel converts a row-major flat index to coordinates.
func unravel(idx int, d [numAxes]int) [numAxes]int {
	var c [numAxes]int
	for i := numAxes - 1; i >= 0; i-- {
		c[i] = idx % d[i]
		idx /= d[i]
	}
	return c
}

// broadcastIndex maps a flat index in the full shape onto the matching
// element of a keep-dims reduced shape.
func broadcastIndex(idx int, full, reduced [numAxes]int) int {
	c := unravel(idx, full)
	for i := range c {
		if reduced[i] == 1 {
			c[i] = 0
		}
	}
	return ravel(c, reduced)
}

// Array is a calibration solution: complex gains indexed by
// (time interval, antenna, frequency channel, polarization).
// A NaN element marks a flagged measurement.
type Array struct {
	shape Shape
	data  []complex128
}

// NewArray returns a zero-filled array of the given shape.
func NewArray(shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Array{shape: shape, data: make([]complex128, shape.Len())}, nil
}

// FromData wraps row-major data in an array of the given shape.
// The array takes ownership of data.
func FromData(shape Shape, data []complex128) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(data) != shape.Len() {
		return nil, fmt.Errorf("%w: %d values for shape %v (want %d)",
			ErrShapeMismatch, len(data), shape, shape.Len())
	}
	return &Array{shape: shape, data: data}, nil
}

// Shape returns the axis lengths.
func (a *Array) Shape() Shape {
	return a.shape
}

// Data returns the row-major backing slice. Writes are visible in the array.
func (a *Array) Data() []complex128 {
	return a.data
}

func (a *Array) index(t, ant, ch, pol int) int {
	return ravel([numAxes]int{t, ant, ch, pol}, a.shape.dims())
}

// At returns the gain at the given coordinates.
func (a *Array) At(t, ant, ch, pol int) complex128 {
	return a.data[a.index(t, ant, ch, pol)]
}

// Set stores the gain at the given coordinates.
func (a *Array) Set(t, ant, ch, pol int, v complex128) {
	a.data[a.index(t, ant, ch, pol)] = v
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	data := make([]complex128, len(a.data))
	copy(data, a.data)
	return &Array{shape: a.shape, data: data}
}

// Channel returns a copy of one frequency channel as a single-channel array.
func (a *Array) Channel(ch int) (*Array, error) {
	if ch < 0 || ch >= a.shape.Channels {
		return nil, fmt.Errorf("%w: channel %d out of range [0, %d)", ErrShapeMismatch, ch, a.shape.Channels)
	}
	return a.selectChannels([]int{ch}), nil
}

// SetChannel overwrites channel ch with the single-channel array src.
func (a *Array) SetChannel(ch int, src *Array) error {
	if ch < 0 || ch >= a.shape.Channels {
		return fmt.Errorf("%w: channel %d out of range [0, %d)", ErrShapeMismatch, ch, a.shape.Channels)
	}
	if src.shape != a.shape.withChannels(1) {
		return fmt.Errorf("%w: channel slice has shape %v, want %v",
			ErrShapeMismatch, src.shape, a.shape.withChannels(1))
	}
	for t := range a.shape.Intervals {
		for ant := range a.shape.Antennas {
			for pol := range a.shape.Pols {
				a.Set(t, ant, ch, pol, src.At(t, ant, 0, pol))
			}
		}
	}
	return nil
}

// selectChannels copies the listed channels, in order, into a new array.
func (a *Array) selectChannels(channels []int) *Array {
	out := &Array{shape: a.shape.withChannels(len(channels))}
	out.data = make([]complex128, out.shape.Len())
	for t := range a.shape.Intervals {
		for ant := range a.shape.Antennas {
			for i, ch := range channels {
				for pol := range a.shape.Pols {
					out.Set(t, ant, i, pol, a.At(t, ant, ch, pol))
				}
			}
		}
	}
	return out
}

func sameShape(a, b *Array) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil array", ErrShapeMismatch)
	}
	if a.shape != b.shape {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, a.shape, b.shape)
	}
	return nil
}
