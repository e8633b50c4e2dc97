package calsmooth

import (
	"errors"
	"fmt"
)

// Common errors returned by the package.
var (
	// ErrInvalidRegularization indicates a regularisation weight that is not
	// strictly positive.
	ErrInvalidRegularization = errors.New("invalid regularization parameter")

	// ErrShapeMismatch indicates arrays, grids or data slices whose shapes
	// do not agree.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrUnsupportedRotationShape indicates a rotation that cannot be
	// broadcast against the array it is applied to.
	ErrUnsupportedRotationShape = errors.New("unsupported rotation shape")

	// ErrInvalidFrequencies indicates frequency coordinates that are not
	// finite and strictly increasing.
	ErrInvalidFrequencies = errors.New("invalid frequency coordinates")

	// ErrTooFewChannels indicates too few unflagged channels for the
	// requested operation.
	ErrTooFewChannels = errors.New("too few channels")

	// ErrInvalidReference indicates a reference antenna or flavor that does
	// not exist.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ReferenceMode selects how solutions are normalised before evaluation.
type ReferenceMode string

const (
	// ReferenceNone leaves solutions untouched.
	ReferenceNone ReferenceMode = ""
	// ReferenceAntenna divides by a single antenna.
	ReferenceAntenna ReferenceMode = "antenna"
	// ReferenceAverage divides by the amplitude-weighted average antenna.
	ReferenceAverage ReferenceMode = "average"
	// ReferenceFlavor divides by the average of all antennas of one flavor.
	ReferenceFlavor ReferenceMode = "flavor"
)

// ReferenceSpec configures reference normalisation.
type ReferenceSpec struct {
	Mode ReferenceMode `yaml:"mode,omitempty"`

	// Antenna is the reference antenna index for ReferenceAntenna.
	Antenna int `yaml:"antenna,omitempty"`

	// Flavor is the receiver flavor to average for ReferenceFlavor.
	Flavor string `yaml:"flavor,omitempty"`

	// Flavors lists the flavor of every antenna in array order, as read
	// from the observation metadata. Required for ReferenceFlavor.
	Flavors []string `yaml:"flavors,omitempty"`
}

// Config holds evaluation settings.
type Config struct {
	// Lambda weights smoothness against fit. Small values favour models
	// that match the data, large values favour smooth models. Must be > 0.
	Lambda float64 `yaml:"lambda"`

	// Reference selects optional normalisation applied by Evaluator.Prepare.
	Reference ReferenceSpec `yaml:"reference,omitempty"`
}

// DefaultConfig returns a configuration with lambda 1 and no reference.
func DefaultConfig() *Config {
	return &Config{Lambda: defaultLambda}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !(c.Lambda > 0) {
		return fmt.Errorf("%w: lambda must be > 0, got %v", ErrInvalidConfig, c.Lambda)
	}
	return c.Reference.Validate()
}

// Validate checks that the reference settings are complete for their mode.
// Antenna ranges are checked against the data when normalising.
func (r *ReferenceSpec) Validate() error {
	switch r.Mode {
	case ReferenceNone, ReferenceAverage:
		return nil
	case ReferenceAntenna:
		if r.Antenna < 0 {
			return fmt.Errorf("%w: reference antenna must be >= 0", ErrInvalidConfig)
		}
	case ReferenceFlavor:
		if r.Flavor == "" {
			return fmt.Errorf("%w: reference flavor is empty", ErrInvalidConfig)
		}
		if len(r.Flavors) == 0 {
			return fmt.Errorf("%w: reference flavor %q needs the antenna flavor table", ErrInvalidConfig, r.Flavor)
		}
	default:
		return fmt.Errorf("%w: unknown reference mode %q", ErrInvalidConfig, r.Mode)
	}
	return nil
}

// Evaluator scores candidate smooth models against one configuration.
// It holds no per-call state and is safe for concurrent use.
type Evaluator struct {
	config Config
}

// New creates an evaluator with the specified configuration.
func New(config *Config) (*Evaluator, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cfg := *config
	cfg.Reference.Flavors = append([]string(nil), config.Reference.Flavors...)
	return &Evaluator{config: cfg}, nil
}

// Lambda returns the configured regularisation weight.
func (e *Evaluator) Lambda() float64 {
	return e.config.Lambda
}

// Normalize applies the configured reference normalisation to arr.
// The input is not modified.
func (e *Evaluator) Normalize(arr *Array) (*Array, error) {
	ref := e.config.Reference
	switch ref.Mode {
	case ReferenceAntenna:
		return DivideByAntenna(arr, ref.Antenna)
	case ReferenceAverage:
		return DivideByAverage(arr)
	case ReferenceFlavor:
		return DivideByFlavor(arr, ref.Flavors, ref.Flavor)
	default:
		if arr == nil {
			return nil, fmt.Errorf("%w: nil array", ErrShapeMismatch)
		}
		return arr.Clone(), nil
	}
}

// Prepare normalises observed solutions and strips fully flagged channels,
// returning the array and grid that candidate models are scored on.
func (e *Evaluator) Prepare(observed *Array, freqs []float64) (*Array, *Grid, error) {
	norm, err := e.Normalize(observed)
	if err != nil {
		return nil, nil, err
	}
	return FilterFlaggedChannels(norm, freqs)
}

// Evaluate scores model against observed on grid with the configured lambda.
func (e *Evaluator) Evaluate(observed, model *Array, grid *Grid) (ObjectiveResult, error) {
	return EvaluateObjective(observed, model, e.config.Lambda, grid)
}
