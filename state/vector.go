// Package state implements the amplitude vector at the heart of the
// quantum-inspired compression engine. A Vector encodes a window of
// classical bytes as a normalized sequence of complex amplitudes plus a
// scalar phase derived from the window's entropy.
//
// Vectors are immutable values: every transforming method returns a new
// Vector and never touches the receiver's amplitudes.
package state

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/parthchhabraa/quantumflow/qmath"
)

const (
	// DefaultChunkSize is the number of leading bytes mapped to
	// amplitudes when none is specified.
	DefaultChunkSize = 4

	// MaxChunkSize bounds a single vector's amplitude count.
	MaxChunkSize = 1 << 10
)

var (
	// ErrEmptyVector is returned when constructing from no amplitudes.
	ErrEmptyVector = errors.New("state vector requires at least one amplitude")

	// ErrZeroMagnitude is returned when all amplitudes carry zero
	// probability and the vector cannot be normalized.
	ErrZeroMagnitude = qmath.ErrZeroMagnitude
)

// ErrInvalidChunkSize indicates an out-of-range chunk size.
type ErrInvalidChunkSize struct {
	ChunkSize int
}

func (e *ErrInvalidChunkSize) Error() string {
	return fmt.Sprintf("invalid chunk size: %d (want 1..%d)", e.ChunkSize, MaxChunkSize)
}

// Vector is an ordered, non-empty, unit-probability sequence of complex
// amplitudes with a scalar phase and an optional entanglement tag.
//
// The entanglement tag is a correlation label stamped on two
// independently owned vectors; it implies no shared ownership.
type Vector struct {
	amps           []complex128
	phase          float64
	entanglementID string
}

// New constructs a Vector from amplitudes and a scalar phase.
// The amplitudes are copied and renormalized if their total probability
// deviates from 1.
func New(amps []complex128, phase float64) (Vector, error) {
	if len(amps) == 0 {
		return Vector{}, ErrEmptyVector
	}

	own := make([]complex128, len(amps))
	copy(own, amps)

	if !qmath.Normalized(own) {
		normalized, err := qmath.Normalize(own)
		if err != nil {
			return Vector{}, err
		}
		own = normalized
	}

	return Vector{amps: own, phase: wrapPhase(phase)}, nil
}

// FromBytes encodes the first min(len(data), chunkSize) bytes of data as
// amplitudes. Each byte b maps to magnitude (b+1)/256 and a per-byte
// phase of 2*pi*b/256; the vector's scalar phase is the normalized
// Shannon entropy of the whole buffer times pi.
//
// A single vector therefore never encodes more than chunkSize bytes;
// callers chunk longer buffers. chunkSize <= 0 selects DefaultChunkSize.
func FromBytes(data []byte, chunkSize int) (Vector, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize > MaxChunkSize {
		return Vector{}, &ErrInvalidChunkSize{ChunkSize: chunkSize}
	}
	if len(data) == 0 {
		return Vector{}, ErrEmptyVector
	}

	n := min(len(data), chunkSize)
	amps := make([]complex128, n)
	for i := 0; i < n; i++ {
		b := data[i]
		magnitude := (float64(b) + 1) / 256.0
		phase := 2 * math.Pi * float64(b) / 256.0
		amps[i] = qmath.FromPolar(magnitude, phase)
	}

	return New(amps, qmath.NormalizedEntropy(data)*math.Pi)
}

// Len returns the amplitude count.
func (v Vector) Len() int { return len(v.amps) }

// At returns the amplitude at index i.
func (v Vector) At(i int) complex128 { return v.amps[i] }

// Amplitudes returns a defensive copy of the amplitude sequence.
func (v Vector) Amplitudes() []complex128 {
	out := make([]complex128, len(v.amps))
	copy(out, v.amps)
	return out
}

// Phase returns the scalar phase.
func (v Vector) Phase() float64 { return v.phase }

// EntanglementID returns the correlation tag, empty if unset.
func (v Vector) EntanglementID() string { return v.entanglementID }

// WithEntanglementID returns a copy of v stamped with the given tag.
func (v Vector) WithEntanglementID(id string) Vector {
	out := v.Clone()
	out.entanglementID = id
	return out
}

// Normalize returns a copy of v rescaled to unit total probability.
func (v Vector) Normalize() (Vector, error) {
	amps, err := qmath.Normalize(v.amps)
	if err != nil {
		return Vector{}, err
	}
	return Vector{amps: amps, phase: v.phase, entanglementID: v.entanglementID}, nil
}

// TotalProbability returns sum(|a_i|^2).
func (v Vector) TotalProbability() float64 {
	return qmath.TotalProbability(v.amps)
}

// Probabilities returns the normalized probability distribution.
func (v Vector) Probabilities() []float64 {
	probs, err := qmath.Probabilities(v.amps)
	if err != nil {
		// Construction guarantees non-zero probability mass.
		return make([]float64, len(v.amps))
	}
	return probs
}

// ToBytes maps every amplitude back to a byte via
// round(|a|*256 - 1) clamped to [0, 255].
//
// This is an approximate inverse of FromBytes: normalization rescales
// magnitudes, so round-tripping is lossy by design. Callers must not
// rely on byte-exact recovery.
func (v Vector) ToBytes() []byte {
	out := make([]byte, len(v.amps))
	for i, a := range v.amps {
		value := math.Round(cmplx.Abs(a)*256 - 1)
		if value < 0 {
			value = 0
		} else if value > 255 {
			value = 255
		}
		out[i] = byte(value)
	}
	return out
}

// Correlation returns the Pearson correlation of the amplitude
// magnitudes of v and other over their overlapping range.
// Correlation of any vector with itself is 1.
func (v Vector) Correlation(other Vector) float64 {
	n := min(len(v.amps), len(other.amps))
	if n == 0 {
		return 0
	}
	return qmath.Pearson(
		qmath.Magnitudes(v.amps[:n]),
		qmath.Magnitudes(other.amps[:n]),
	)
}

// ApplyPhaseShift rotates every amplitude by delta and advances the
// scalar phase modulo 2*pi. Returns a new vector.
func (v Vector) ApplyPhaseShift(delta float64) Vector {
	rot := qmath.FromPolar(1, delta)
	amps := make([]complex128, len(v.amps))
	for i, a := range v.amps {
		amps[i] = a * rot
	}
	return Vector{
		amps:           amps,
		phase:          wrapPhase(v.phase + delta),
		entanglementID: v.entanglementID,
	}
}

// WithAmplitude returns a copy of v with the amplitude at index i
// replaced and the result renormalized. Used by error correction to
// apply repairs without mutating shared state.
func (v Vector) WithAmplitude(i int, a complex128) (Vector, error) {
	if i < 0 || i >= len(v.amps) {
		return Vector{}, fmt.Errorf("amplitude index %d out of range [0,%d)", i, len(v.amps))
	}
	amps := make([]complex128, len(v.amps))
	copy(amps, v.amps)
	amps[i] = a

	out := Vector{amps: amps, phase: v.phase, entanglementID: v.entanglementID}
	return out.Normalize()
}

// Clone returns a deep copy of v.
func (v Vector) Clone() Vector {
	amps := make([]complex128, len(v.amps))
	copy(amps, v.amps)
	return Vector{amps: amps, phase: v.phase, entanglementID: v.entanglementID}
}

// Equal reports structural equality of v and other within tol.
func (v Vector) Equal(other Vector, tol float64) bool {
	if len(v.amps) != len(other.amps) {
		return false
	}
	if math.Abs(v.phase-other.phase) > tol {
		return false
	}
	for i := range v.amps {
		if !qmath.ApproxEqual(v.amps[i], other.amps[i], tol) {
			return false
		}
	}
	return true
}

// Fingerprint returns a structural cache key derived from the scalar
// phase, the amplitude magnitude sum, and the length. Vectors with the
// same fingerprint are treated as correlation-equivalent by caches.
func (v Vector) Fingerprint() string {
	sum := 0.0
	for _, a := range v.amps {
		sum += cmplx.Abs(a)
	}
	return fmt.Sprintf("%.9f|%.9f|%d", v.phase, sum, len(v.amps))
}

func wrapPhase(phase float64) float64 {
	phase = math.Mod(phase, 2*math.Pi)
	if phase < 0 {
		phase += 2 * math.Pi
	}
	return phase
}
