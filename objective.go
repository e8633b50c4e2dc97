package calsmooth

import (
	"fmt"
)

// ObjectiveResult holds the two terms of the regularised objective and their
// weighted sum.
type ObjectiveResult struct {
	Fit        float64 // mean |MinDiff(observed, model)|², aligned per channel
	Smoothness float64 // mean |SecondDifference(model)|²
	Total      float64 // Fit + lambda*Smoothness
}

// Objective scores how well model matches observed while staying smooth in
// frequency: Fit + lambda*Smoothness. Lower is better.
//
// Both arrays must be laid out on grid, i.e. already stripped of fully
// flagged channels (see Grid.Select for carrying a model through the same
// filtering). Missing elements are excluded from both means.
func Objective(observed, model *Array, lambda float64, grid *Grid) (float64, error) {
	res, err := EvaluateObjective(observed, model, lambda, grid)
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// EvaluateObjective is like Objective but reports the fit and smoothness
// terms separately.
func EvaluateObjective(observed, model *Array, lambda float64, grid *Grid) (ObjectiveResult, error) {
	if !(lambda > 0) {
		return ObjectiveResult{}, fmt.Errorf("%w: lambda must be > 0, got %v", ErrInvalidRegularization, lambda)
	}
	if err := sameShape(observed, model); err != nil {
		return ObjectiveResult{}, err
	}
	if grid == nil {
		return ObjectiveResult{}, fmt.Errorf("%w: nil grid", ErrShapeMismatch)
	}
	if err := grid.checkArray(observed); err != nil {
		return ObjectiveResult{}, err
	}

	resid, err := MinDiff(observed, model, AllAxes.Without(AxisChannel))
	if err != nil {
		return ObjectiveResult{}, err
	}
	d2, err := SecondDifference(model, grid)
	if err != nil {
		return ObjectiveResult{}, err
	}

	res := ObjectiveResult{
		Fit:        meanSquaredMagnitude(resid),
		Smoothness: meanSquaredMagnitude(d2),
	}
	res.Total = res.Fit + lambda*res.Smoothness
	return res, nil
}
