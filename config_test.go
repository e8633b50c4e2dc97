package calsmooth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `lambda: 0.25
reference:
  mode: flavor
  flavor: RG6_90
  flavors: [RG6_90, LMR400_320, RG6_90]
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Lambda)
	assert.Equal(t, ReferenceFlavor, cfg.Reference.Mode)
	assert.Equal(t, "RG6_90", cfg.Reference.Flavor)
	assert.Len(t, cfg.Reference.Flavors, 3)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "reference:\n  mode: average\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, defaultLambda, cfg.Lambda)
	assert.Equal(t, ReferenceAverage, cfg.Reference.Mode)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"ZeroLambda", "lambda: 0\n"},
		{"NegativeLambda", "lambda: -2\n"},
		{"UnknownMode", "reference:\n  mode: median\n"},
		{"FlavorWithoutTable", "reference:\n  mode: flavor\n  flavor: RG6_90\n"},
		{"NegativeAntenna", "reference:\n  mode: antenna\n  antenna: -3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := LoadConfig(writeConfig(t, "lambda: [1, 2\n"))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	cfg := &Config{
		Lambda:    3.5,
		Reference: ReferenceSpec{Mode: ReferenceAntenna, Antenna: 7},
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	assert.ErrorIs(t, SaveConfig(path, &Config{}), ErrInvalidConfig)
}
