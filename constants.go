package calsmooth

// Array layout constants
const (
	numAxes = 4 // time interval, antenna, channel, polarization
)

// Smoothness operator constants
const (
	minSmoothChannels = 2   // Gaps at both ends need two real channels
	halfDivisor       = 2.0 // Central difference denominator: half the summed gaps
)

// Reference normalisation constants
const (
	inverseVariancePower = -2.0 // Antenna averages are weighted by |g|^-2
	ampCeilingFactor     = 2.0  // Amplitude ceiling is twice the median amplitude
)

// Configuration defaults
const (
	defaultLambda  = 1.0   // Regularisation weight used when none is configured
	configFileMode = 0o644 // Permissions for configuration files written by SaveConfig
)
