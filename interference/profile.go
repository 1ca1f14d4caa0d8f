// Package interference reshapes superposition probability mass by
// threshold-gated amplification and suppression of amplitude patterns.
package interference

import "fmt"

// Profile bundles the thresholds and gains of one interference policy.
// Profiles are plain values handed to the optimizer; presets are
// exposed as factory functions rather than a shared mutable registry.
type Profile struct {
	// ConstructiveThreshold is the minimum probability a pattern needs
	// to be amplified.
	ConstructiveThreshold float64

	// DestructiveThreshold is the maximum probability a pattern may
	// have to be suppressed.
	DestructiveThreshold float64

	// AmplificationFactor scales amplified magnitudes (> 1).
	AmplificationFactor float64

	// SuppressionFactor scales suppressed magnitudes (in (0, 1)).
	SuppressionFactor float64
}

// Validate checks the profile's parameter ranges.
func (p Profile) Validate() error {
	if p.ConstructiveThreshold < 0 || p.ConstructiveThreshold > 1 {
		return fmt.Errorf("constructive threshold %.4f out of range [0,1]", p.ConstructiveThreshold)
	}
	if p.DestructiveThreshold < 0 || p.DestructiveThreshold > 1 {
		return fmt.Errorf("destructive threshold %.4f out of range [0,1]", p.DestructiveThreshold)
	}
	if p.AmplificationFactor <= 1 {
		return fmt.Errorf("amplification factor %.4f must exceed 1", p.AmplificationFactor)
	}
	if p.SuppressionFactor <= 0 || p.SuppressionFactor >= 1 {
		return fmt.Errorf("suppression factor %.4f out of range (0,1)", p.SuppressionFactor)
	}
	return nil
}

// DataType labels the payload classes the optimizer tunes for.
type DataType int

const (
	DataTypeMixed DataType = iota
	DataTypeText
	DataTypeBinary
	DataTypeImage
	DataTypeAudio
)

func (t DataType) String() string {
	switch t {
	case DataTypeText:
		return "text"
	case DataTypeBinary:
		return "binary"
	case DataTypeImage:
		return "image"
	case DataTypeAudio:
		return "audio"
	case DataTypeMixed:
		return "mixed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// DefaultProfile is the general-purpose starting point.
func DefaultProfile() Profile {
	return Profile{
		ConstructiveThreshold: 0.1,
		DestructiveThreshold:  0.02,
		AmplificationFactor:   1.5,
		SuppressionFactor:     0.5,
	}
}

// TextProfile favors aggressive amplification: text concentrates
// probability mass on few byte values.
func TextProfile() Profile {
	return Profile{
		ConstructiveThreshold: 0.08,
		DestructiveThreshold:  0.015,
		AmplificationFactor:   1.8,
		SuppressionFactor:     0.4,
	}
}

// BinaryProfile is conservative: binary payloads spread probability
// mass widely and over-amplification distorts reconstruction.
func BinaryProfile() Profile {
	return Profile{
		ConstructiveThreshold: 0.15,
		DestructiveThreshold:  0.03,
		AmplificationFactor:   1.3,
		SuppressionFactor:     0.6,
	}
}

// ImageProfile sits between text and binary.
func ImageProfile() Profile {
	return Profile{
		ConstructiveThreshold: 0.12,
		DestructiveThreshold:  0.025,
		AmplificationFactor:   1.4,
		SuppressionFactor:     0.55,
	}
}

// AudioProfile suppresses lightly; audio noise floors punish heavy
// destructive passes.
func AudioProfile() Profile {
	return Profile{
		ConstructiveThreshold: 0.1,
		DestructiveThreshold:  0.01,
		AmplificationFactor:   1.45,
		SuppressionFactor:     0.7,
	}
}

// MixedProfile equals DefaultProfile; kept as an explicit preset so
// callers selecting by DataType always get a named factory.
func MixedProfile() Profile {
	return DefaultProfile()
}

// ProfileForDataType returns the recommended preset for a data type.
func ProfileForDataType(t DataType) Profile {
	switch t {
	case DataTypeText:
		return TextProfile()
	case DataTypeBinary:
		return BinaryProfile()
	case DataTypeImage:
		return ImageProfile()
	case DataTypeAudio:
		return AudioProfile()
	default:
		return MixedProfile()
	}
}

// ProfileByName resolves a preset by its stable name.
func ProfileByName(name string) (Profile, bool) {
	switch name {
	case "default", "":
		return DefaultProfile(), true
	case "text":
		return TextProfile(), true
	case "binary":
		return BinaryProfile(), true
	case "image":
		return ImageProfile(), true
	case "audio":
		return AudioProfile(), true
	case "mixed":
		return MixedProfile(), true
	default:
		return Profile{}, false
	}
}
