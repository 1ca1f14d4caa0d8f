// Package superposition combines many state vectors into weighted
// composite vectors and extracts dominant-pattern statistics from them.
package superposition

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"sort"
	"time"

	"github.com/parthchhabraa/quantumflow/qmath"
	"github.com/parthchhabraa/quantumflow/state"
)

var (
	// ErrNoStates is returned when a superposition is requested over an
	// empty state set.
	ErrNoStates = errors.New("superposition requires at least one state")

	// ErrWeightCountMismatch is returned when explicit weights do not
	// line up with the states.
	ErrWeightCountMismatch = errors.New("weight count does not match state count")

	// ErrZeroWeights is returned when all provided weights are zero.
	ErrZeroWeights = errors.New("weights must not all be zero")
)

// DefaultCoherenceTime is how long a fresh superposition is considered
// analyzable before decay dominates.
const DefaultCoherenceTime = 500 * time.Millisecond

// InterferenceKind selects the direction of an interference pass.
type InterferenceKind int

const (
	// Constructive scales selected amplitudes up by 1.2.
	Constructive InterferenceKind = iota
	// Destructive scales selected amplitudes down by 0.8.
	Destructive
)

func (k InterferenceKind) String() string {
	switch k {
	case Constructive:
		return "constructive"
	case Destructive:
		return "destructive"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

const (
	constructiveGain = 1.2
	destructiveGain  = 0.8
)

// Pattern is one amplitude slot's contribution to the probability mass.
type Pattern struct {
	Index       int
	Probability float64
	Magnitude   float64
	Phase       float64
}

// Measurement is the outcome of a single stochastic collapse.
type Measurement struct {
	Index       int
	Probability float64
}

// State is the weighted combination of multiple constituent vectors.
//
// combinedAmplitudes always spans the longest constituent; shorter
// constituents contribute zero to the tail slots.
type State struct {
	combined      []complex128
	probabilities []float64
	constituents  []state.Vector
	weights       []float64
	coherenceTime time.Duration
	createdAt     time.Time
}

// New combines states into a superposition using the given weights.
// Nil weights select a uniform weighting; explicit weights are
// normalized to sum to 1. Each constituent contributes
// sqrt(weight) * amplitude, padded to the longest constituent.
func New(states []state.Vector, weights []float64, coherenceTime time.Duration) (*State, error) {
	if len(states) == 0 {
		return nil, ErrNoStates
	}
	if weights != nil && len(weights) != len(states) {
		return nil, ErrWeightCountMismatch
	}
	if coherenceTime <= 0 {
		coherenceTime = DefaultCoherenceTime
	}

	normWeights, err := normalizeWeights(weights, len(states))
	if err != nil {
		return nil, err
	}

	maxLen := 0
	for _, s := range states {
		if s.Len() > maxLen {
			maxLen = s.Len()
		}
	}

	combined := make([]complex128, maxLen)
	for j, s := range states {
		scale := complex(math.Sqrt(normWeights[j]), 0)
		for i := 0; i < s.Len(); i++ {
			combined[i] += s.At(i) * scale
		}
	}

	probs, err := qmath.Probabilities(combined)
	if err != nil {
		return nil, err
	}

	owned := make([]state.Vector, len(states))
	for i, s := range states {
		owned[i] = s.Clone()
	}

	return &State{
		combined:      combined,
		probabilities: probs,
		constituents:  owned,
		weights:       normWeights,
		coherenceTime: coherenceTime,
		createdAt:     time.Now(),
	}, nil
}

// Len returns the combined amplitude count.
func (s *State) Len() int { return len(s.combined) }

// Amplitude returns the combined amplitude at index i.
func (s *State) Amplitude(i int) complex128 { return s.combined[i] }

// Probabilities returns a copy of the probability distribution.
func (s *State) Probabilities() []float64 {
	out := make([]float64, len(s.probabilities))
	copy(out, s.probabilities)
	return out
}

// Weights returns a copy of the normalized constituent weights.
func (s *State) Weights() []float64 {
	out := make([]float64, len(s.weights))
	copy(out, s.weights)
	return out
}

// Constituents returns deep copies of the constituent vectors.
func (s *State) Constituents() []state.Vector {
	out := make([]state.Vector, len(s.constituents))
	for i, c := range s.constituents {
		out[i] = c.Clone()
	}
	return out
}

// CoherenceTime returns the configured coherence window.
func (s *State) CoherenceTime() time.Duration { return s.coherenceTime }

// Representative folds the combined amplitudes back into a single
// state vector, used as a group stand-in during tree reduction.
func (s *State) Representative() (state.Vector, error) {
	return state.New(s.combined, qmath.Mean(phases(s.combined)))
}

// AnalyzeAmplitudes converts each amplitude into a probability pattern,
// keeps those at or above patternThreshold, and sorts them by
// descending probability. The result defines the dominant patterns.
func (s *State) AnalyzeAmplitudes(patternThreshold float64) []Pattern {
	patterns := make([]Pattern, 0, len(s.combined))
	for i, a := range s.combined {
		p := s.probabilities[i]
		if p < patternThreshold {
			continue
		}
		patterns = append(patterns, Pattern{
			Index:       i,
			Probability: p,
			Magnitude:   cmplx.Abs(a),
			Phase:       cmplx.Phase(a),
		})
	}
	sort.SliceStable(patterns, func(a, b int) bool {
		return patterns[a].Probability > patterns[b].Probability
	})
	return patterns
}

// Measure performs a single stochastic collapse: index i is sampled
// with probability probabilities[i] via cumulative-distribution
// inversion. rng may be nil, in which case the shared global source is
// used; pass a seeded source for reproducible measurements.
func (s *State) Measure(rng *rand.Rand) Measurement {
	var r float64
	if rng != nil {
		r = rng.Float64()
	} else {
		r = rand.Float64()
	}

	cumulative := 0.0
	for i, p := range s.probabilities {
		cumulative += p
		if r <= cumulative {
			return Measurement{Index: i, Probability: p}
		}
	}

	// Floating-point shortfall in the cumulative sum: collapse to the
	// last slot.
	last := len(s.probabilities) - 1
	return Measurement{Index: last, Probability: s.probabilities[last]}
}

// ApplyInterference scales the amplitudes at the given indices by 1.2
// (constructive) or 0.8 (destructive) and renormalizes the whole
// vector. Out-of-range indices are ignored. Returns a new State.
func (s *State) ApplyInterference(kind InterferenceKind, indices []int) (*State, error) {
	gain := complex(constructiveGain, 0)
	if kind == Destructive {
		gain = complex(destructiveGain, 0)
	}

	combined := make([]complex128, len(s.combined))
	copy(combined, s.combined)
	for _, i := range indices {
		if i < 0 || i >= len(combined) {
			continue
		}
		combined[i] *= gain
	}

	normalized, err := qmath.Normalize(combined)
	if err != nil {
		return nil, err
	}
	probs, err := qmath.Probabilities(normalized)
	if err != nil {
		return nil, err
	}

	out := &State{
		combined:      normalized,
		probabilities: probs,
		constituents:  s.constituents,
		weights:       s.weights,
		coherenceTime: s.coherenceTime,
		createdAt:     s.createdAt,
	}
	return out, nil
}

// Coherence returns exp(-elapsed/coherenceTime), a monotonically
// decaying score in (0, 1].
func (s *State) Coherence() float64 {
	elapsed := time.Since(s.createdAt)
	return math.Exp(-float64(elapsed) / float64(s.coherenceTime))
}

// Coherent reports whether the superposition is still analyzable at
// the given threshold.
func (s *State) Coherent(threshold float64) bool {
	return s.Coherence() > threshold
}

func normalizeWeights(weights []float64, n int) ([]float64, error) {
	out := make([]float64, n)
	if weights == nil {
		uniform := 1.0 / float64(n)
		for i := range out {
			out[i] = uniform
		}
		return out, nil
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight %f", w)
		}
		total += w
	}
	if total == 0 {
		return nil, ErrZeroWeights
	}
	for i, w := range weights {
		out[i] = w / total
	}
	return out, nil
}

func phases(amps []complex128) []float64 {
	out := make([]float64, len(amps))
	for i, a := range amps {
		out[i] = cmplx.Phase(a)
	}
	return out
}
