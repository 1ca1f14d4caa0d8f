package quantumflow

import (
	"github.com/parthchhabraa/quantumflow/interference"
)

// Config holds the tunable parameters of the engine.
//
// All fields have bounded ranges; Validate reports the first violation
// as an *ErrInvalidConfig.
type Config struct {
	// QuantumBitDepth controls the chunk size used when mapping bytes
	// to amplitude vectors. Range 2..16, default 8.
	QuantumBitDepth int `json:"quantum_bit_depth"`

	// MaxEntanglementLevel bounds the correlation-mining depth: the
	// maximum number of entangled pairs retained per analysis window is
	// 8 << MaxEntanglementLevel. Range 1..8, default 4.
	MaxEntanglementLevel int `json:"max_entanglement_level"`

	// SuperpositionComplexity bounds how many states are combined into
	// one superposition group: the group cap is 2 << SuperpositionComplexity,
	// clamped to the processor limits. Range 1..10, default 5.
	SuperpositionComplexity int `json:"superposition_complexity"`

	// InterferenceThreshold is the correlation threshold used when
	// pairing vectors during analysis. Range 0..1, default 0.5.
	InterferenceThreshold float64 `json:"interference_threshold"`

	// Profile names the interference profile preset: "default", "text",
	// "binary", "image", "audio" or "mixed". Empty means "default".
	Profile string `json:"profile,omitempty"`
}

// DefaultConfig returns a Config with balanced defaults suitable for
// mixed data.
func DefaultConfig() Config {
	return Config{
		QuantumBitDepth:         8,
		MaxEntanglementLevel:    4,
		SuperpositionComplexity: 5,
		InterferenceThreshold:   0.5,
		Profile:                 "default",
	}
}

// Validate checks all parameters against their documented ranges.
func (c Config) Validate() error {
	if c.QuantumBitDepth < 2 || c.QuantumBitDepth > 16 {
		return &ErrInvalidConfig{Field: "QuantumBitDepth", Value: c.QuantumBitDepth}
	}
	if c.MaxEntanglementLevel < 1 || c.MaxEntanglementLevel > 8 {
		return &ErrInvalidConfig{Field: "MaxEntanglementLevel", Value: c.MaxEntanglementLevel}
	}
	if c.SuperpositionComplexity < 1 || c.SuperpositionComplexity > 10 {
		return &ErrInvalidConfig{Field: "SuperpositionComplexity", Value: c.SuperpositionComplexity}
	}
	if c.InterferenceThreshold < 0 || c.InterferenceThreshold > 1 {
		return &ErrInvalidConfig{Field: "InterferenceThreshold", Value: c.InterferenceThreshold}
	}
	if _, ok := interference.ProfileByName(c.Profile); !ok {
		return &ErrInvalidConfig{Field: "Profile", Value: c.Profile}
	}
	return nil
}

// profile resolves the named interference profile, falling back to the
// default preset for an empty name. Call after Validate.
func (c Config) profile() interference.Profile {
	p, ok := interference.ProfileByName(c.Profile)
	if !ok {
		return interference.DefaultProfile()
	}
	return p
}

// chunkSize derives the byte-to-amplitude chunk size from the bit depth.
func (c Config) chunkSize() int {
	// Depth 8 maps to 4-byte chunks; each extra level doubles.
	size := 1 << (c.QuantumBitDepth / 4)
	if size < 2 {
		size = 2
	}
	return size
}

// maxPairs derives the entangled-pair cap from the entanglement level.
func (c Config) maxPairs() int {
	return 8 << c.MaxEntanglementLevel
}

// maxGroupSize derives the superposition group cap from the complexity.
func (c Config) maxGroupSize() int {
	size := 2 << c.SuperpositionComplexity
	if size < 2 {
		size = 2
	}
	if size > 64 {
		size = 64
	}
	return size
}
