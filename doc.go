// Package calsmooth scores smooth models of radio-interferometer calibration
// solutions.
//
// Calibration solutions are complex gains indexed by time interval, antenna,
// frequency channel and polarization. They are only determined up to an
// arbitrary unit-modulus phase factor, so any comparison between two
// solutions has to remove that factor first. This package provides the
// rotation-alignment primitives that do so, a frequency second-derivative
// operator that works on irregular, partially flagged channel grids, and the
// regularised objective that trades fit quality against smoothness.
//
// # Quick Start
//
//	observed, err := calsmooth.FromData(shape, gains) // gains from a solution file reader
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Drop channels with no data at all. Everything downstream takes the Grid.
//	observed, grid, err := calsmooth.FilterFlaggedChannels(observed, freqs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cost, err := calsmooth.Objective(observed, model, 1.0, grid)
//
// # Missing Data
//
// A NaN gain marks a flagged measurement. Every reduction skips missing
// values instead of treating them as zero, and a reduction with nothing
// left yields NaN rather than an error. Only structural problems (shape
// mismatches, a non-positive lambda, a rotation that does not fit) are
// reported as errors; match them with errors.Is against the Err* values.
//
// # Rotations
//
// A [Rotation] is a tagged variant with four broadcasting rules:
//
//   - [ScalarRotation]: one angle for the whole array
//   - [ChannelRotation]: one angle for a single channel
//   - [PerChannelRotation]: one angle per channel
//   - [ElementwiseRotation]: one angle per element
//
// [Rotate] checks the rotation against the array shape explicitly and
// returns [ErrUnsupportedRotationShape] on mismatch.
//
// # Objective
//
// [Objective] returns
//
//	mean|MinDiff(observed, model)|² + lambda * mean|SecondDifference(model)|²
//
// where the fit residual is aligned with one rotation per channel. It does
// not search for a model; that is left to the caller.
//
// # Thread Safety
//
// All functions are pure and allocate their results. Independent arrays, or
// independent slices of one array, can be processed from separate goroutines.
// [RotateInPlace] and [Array.Set] mutate their receiver and must not race with
// readers of the same array.
package calsmooth
