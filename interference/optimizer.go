package interference

import (
	"context"
	"fmt"
	"math"

	"github.com/parthchhabraa/quantumflow/qmath"
	"github.com/parthchhabraa/quantumflow/state"
	"github.com/parthchhabraa/quantumflow/superposition"
)

const (
	// DefaultMaxIterations bounds iterative optimization.
	DefaultMaxIterations = 10

	// DefaultEpsilon is the convergence threshold on the improvement
	// delta between consecutive rounds.
	DefaultEpsilon = 1e-4
)

// OptimizedPattern records one pattern's probability before and after
// an interference pass.
type OptimizedPattern struct {
	Index     int
	Magnitude float64
	Phase     float64

	// Before and After are the pattern's probability prior to and
	// following the pass (pre-renormalization).
	Before float64
	After  float64

	// CompressionValue is the heuristic probability-mass shift the
	// pass bought for this pattern.
	CompressionValue float64
}

// DataCharacteristics summarizes a state set for adaptive tuning.
type DataCharacteristics struct {
	AverageEntropy           float64
	EntropyVariance          float64
	ProbabilityConcentration float64
	CorrelationStrength      float64
	PatternComplexity        float64
}

// Round records one iterative-optimization round.
type Round struct {
	Iteration     int
	Amplified     int
	Suppressed    int
	Concentration float64
	Improvement   float64
}

// Result is the outcome of iterative optimization.
type Result struct {
	Final      *superposition.State
	Rounds     []Round
	Converged  bool
	Iterations int
}

// OptimizerOptions configures an Optimizer.
type OptimizerOptions struct {
	MaxIterations int
	Epsilon       float64
}

// Optimizer applies threshold-gated interference passes under a fixed
// Profile. The profile is explicit caller-owned configuration; swap the
// value to retune rather than mutating shared state.
type Optimizer struct {
	profile       Profile
	maxIterations int
	epsilon       float64
}

// NewOptimizer creates an Optimizer for the given profile.
func NewOptimizer(profile Profile, optFns ...func(*OptimizerOptions)) (*Optimizer, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	opts := OptimizerOptions{
		MaxIterations: DefaultMaxIterations,
		Epsilon:       DefaultEpsilon,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = DefaultEpsilon
	}

	return &Optimizer{
		profile:       profile,
		maxIterations: opts.MaxIterations,
		epsilon:       opts.Epsilon,
	}, nil
}

// Profile returns the active threshold configuration.
func (o *Optimizer) Profile() Profile { return o.profile }

// WithProfile returns a copy of the optimizer tuned to a new profile.
func (o *Optimizer) WithProfile(profile Profile) (*Optimizer, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	clone := *o
	clone.profile = profile
	return &clone, nil
}

// ApplyConstructive amplifies every pattern whose probability reaches
// the constructive threshold: magnitude scales by the amplification
// factor, phase is untouched. After-probability never falls below
// before-probability.
func (o *Optimizer) ApplyConstructive(patterns []superposition.Pattern) []OptimizedPattern {
	gain := o.profile.AmplificationFactor
	out := make([]OptimizedPattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Probability < o.profile.ConstructiveThreshold {
			continue
		}
		after := p.Probability * gain * gain
		out = append(out, OptimizedPattern{
			Index:            p.Index,
			Magnitude:        p.Magnitude * gain,
			Phase:            p.Phase,
			Before:           p.Probability,
			After:            after,
			CompressionValue: after - p.Probability,
		})
	}
	return out
}

// ApplyDestructive suppresses every pattern whose probability is at or
// below the destructive threshold, scaled by the suppression factor.
func (o *Optimizer) ApplyDestructive(patterns []superposition.Pattern) []OptimizedPattern {
	gain := o.profile.SuppressionFactor
	out := make([]OptimizedPattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Probability > o.profile.DestructiveThreshold {
			continue
		}
		after := p.Probability * gain * gain
		out = append(out, OptimizedPattern{
			Index:            p.Index,
			Magnitude:        p.Magnitude * gain,
			Phase:            p.Phase,
			Before:           p.Probability,
			After:            after,
			CompressionValue: p.Probability - after,
		})
	}
	return out
}

// Analyze computes the data characteristics of a state set.
func (o *Optimizer) Analyze(states []state.Vector) DataCharacteristics {
	if len(states) == 0 {
		return DataCharacteristics{}
	}

	entropies := make([]float64, len(states))
	concentrations := make([]float64, len(states))
	complexities := make([]float64, len(states))
	for i, s := range states {
		data := s.ToBytes()
		entropies[i] = qmath.NormalizedEntropy(data)
		concentrations[i] = herfindahl(s.Probabilities())
		complexities[i] = uniqueRatio(data)
	}

	// Adjacent-pair correlation keeps the sample O(n); the full matrix
	// belongs to the entanglement analyzer.
	corr := 0.0
	if len(states) > 1 {
		for i := 0; i+1 < len(states); i++ {
			corr += math.Abs(states[i].Correlation(states[i+1]))
		}
		corr /= float64(len(states) - 1)
	}

	return DataCharacteristics{
		AverageEntropy:           qmath.Mean(entropies),
		EntropyVariance:          qmath.Variance(entropies),
		ProbabilityConcentration: qmath.Mean(concentrations),
		CorrelationStrength:      corr,
		PatternComplexity:        qmath.Mean(complexities),
	}
}

// AdjustAdaptively proposes a threshold configuration tuned to the
// observed data characteristics and estimates the compression
// improvement of switching to it. This is a feedback step: the caller
// decides whether to adopt the proposal.
func (o *Optimizer) AdjustAdaptively(states []state.Vector) (Profile, float64) {
	chars := o.Analyze(states)
	proposal := o.profile

	// High-entropy data has little exploitable structure: demand more
	// probability mass before amplifying and amplify gently.
	proposal.ConstructiveThreshold = qmath.Clamp01(0.05 + 0.15*chars.AverageEntropy)
	proposal.DestructiveThreshold = qmath.Clamp01(0.01 + 0.03*chars.AverageEntropy)
	proposal.AmplificationFactor = 1.2 + 0.6*(1-chars.AverageEntropy)
	proposal.SuppressionFactor = 0.4 + 0.3*chars.AverageEntropy

	improvement := qmath.Clamp01(
		0.5*chars.ProbabilityConcentration +
			0.3*chars.CorrelationStrength +
			0.2*(1-chars.AverageEntropy))
	return proposal, improvement
}

// OptimizeIteratively repeats detect-amplify-suppress-renormalize
// rounds until the improvement delta between consecutive rounds drops
// below epsilon (converged) or the iteration cap is reached. Each round
// is recorded; ctx is honored between rounds.
func (o *Optimizer) OptimizeIteratively(ctx context.Context, s *superposition.State) (*Result, error) {
	current := s
	rounds := make([]Round, 0, o.maxIterations)
	prevConcentration := herfindahl(current.Probabilities())
	prevImprovement := math.Inf(1)

	for iteration := 1; iteration <= o.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		patterns := current.AnalyzeAmplitudes(0)
		var amplify, suppress []int
		for _, p := range patterns {
			switch {
			case p.Probability >= o.profile.ConstructiveThreshold:
				amplify = append(amplify, p.Index)
			case p.Probability <= o.profile.DestructiveThreshold:
				suppress = append(suppress, p.Index)
			}
		}

		next := current
		var err error
		if len(amplify) > 0 {
			next, err = next.ApplyInterference(superposition.Constructive, amplify)
			if err != nil {
				return nil, err
			}
		}
		if len(suppress) > 0 {
			next, err = next.ApplyInterference(superposition.Destructive, suppress)
			if err != nil {
				return nil, err
			}
		}

		concentration := herfindahl(next.Probabilities())
		improvement := concentration - prevConcentration
		rounds = append(rounds, Round{
			Iteration:     iteration,
			Amplified:     len(amplify),
			Suppressed:    len(suppress),
			Concentration: concentration,
			Improvement:   improvement,
		})

		current = next
		delta := math.Abs(improvement - prevImprovement)
		prevConcentration = concentration
		prevImprovement = improvement

		if delta < o.epsilon {
			return &Result{
				Final:      current,
				Rounds:     rounds,
				Converged:  true,
				Iterations: iteration,
			}, nil
		}
	}

	return &Result{
		Final:      current,
		Rounds:     rounds,
		Converged:  false,
		Iterations: o.maxIterations,
	}, nil
}

// herfindahl measures probability concentration as sum(p_i^2).
func herfindahl(probs []float64) float64 {
	total := 0.0
	for _, p := range probs {
		total += p * p
	}
	return total
}

func uniqueRatio(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var seen [256]bool
	unique := 0
	for _, b := range data {
		if !seen[b] {
			seen[b] = true
			unique++
		}
	}
	return float64(unique) / float64(len(data))
}
