package quantumflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthchhabraa/quantumflow/interference"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "bit depth too low", mutate: func(c *Config) { c.QuantumBitDepth = 1 }, field: "QuantumBitDepth"},
		{name: "bit depth too high", mutate: func(c *Config) { c.QuantumBitDepth = 17 }, field: "QuantumBitDepth"},
		{name: "entanglement too low", mutate: func(c *Config) { c.MaxEntanglementLevel = 0 }, field: "MaxEntanglementLevel"},
		{name: "entanglement too high", mutate: func(c *Config) { c.MaxEntanglementLevel = 9 }, field: "MaxEntanglementLevel"},
		{name: "complexity too low", mutate: func(c *Config) { c.SuperpositionComplexity = 0 }, field: "SuperpositionComplexity"},
		{name: "complexity too high", mutate: func(c *Config) { c.SuperpositionComplexity = 11 }, field: "SuperpositionComplexity"},
		{name: "threshold negative", mutate: func(c *Config) { c.InterferenceThreshold = -0.1 }, field: "InterferenceThreshold"},
		{name: "threshold above one", mutate: func(c *Config) { c.InterferenceThreshold = 1.1 }, field: "InterferenceThreshold"},
		{name: "unknown profile", mutate: func(c *Config) { c.Profile = "quantum-foam" }, field: "Profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			var invalid *ErrInvalidConfig
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestConfig_EmptyProfileIsDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Profile = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, interference.DefaultProfile(), cfg.profile())
}

func TestConfig_DerivedParameters(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 4, cfg.chunkSize())
	assert.Equal(t, 128, cfg.maxPairs())
	assert.Equal(t, 64, cfg.maxGroupSize())

	cfg.SuperpositionComplexity = 1
	assert.Equal(t, 4, cfg.maxGroupSize())

	cfg.SuperpositionComplexity = 10
	assert.Equal(t, 64, cfg.maxGroupSize()) // clamped to the processor cap

	cfg.QuantumBitDepth = 16
	assert.Equal(t, 16, cfg.chunkSize())
}
