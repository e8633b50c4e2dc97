package calsmooth

import (
	"github.com/tphakala/go-calsmooth/internal/nanmath"
)

// reduceMean returns the NaN-aware weighted mean of a over axes.
// Reduced axes are kept with length one. weights is either nil (unit
// weights) or parallel to a.data; a sample is skipped when its value or
// weight is missing, and a slice with no usable samples reduces to NaN.
func (a *Array) reduceMean(weights []float64, axes Axes) *Array {
	full := a.shape.dims()
	out := &Array{shape: a.shape.reduced(axes)}
	out.data = make([]complex128, out.shape.Len())
	outDims := out.shape.dims()

	var inner [numAxes]int
	innerLen := 1
	for i := range inner {
		inner[i] = 1
		if axes.Has(Axis(i)) {
			inner[i] = full[i]
		}
		innerLen *= inner[i]
	}

	acc := nanmath.NewAccumulator(innerLen)
	for o := range out.data {
		base := unravel(o, outDims)
		acc.Reset()
		for k := range innerLen {
			off := unravel(k, inner)
			var c [numAxes]int
			for i := range c {
				c[i] = base[i] + off[i]
			}
			idx := ravel(c, full)
			w := 1.0
			if weights != nil {
				w = weights[idx]
			}
			acc.AddComplex(a.data[idx], w)
		}
		out.data[o] = acc.ComplexMean()
	}
	return out
}

// meanSquaredMagnitude returns the NaN-aware mean of |v|² over every element.
func meanSquaredMagnitude(a *Array) float64 {
	acc := nanmath.NewAccumulator(len(a.data))
	for _, v := range a.data {
		// NaN parts propagate through the product and are skipped by AddReal.
		acc.AddReal(real(v)*real(v)+imag(v)*imag(v), 1)
	}
	return acc.Mean()
}
