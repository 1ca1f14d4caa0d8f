package superposition

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/parthchhabraa/quantumflow/pool"
	"github.com/parthchhabraa/quantumflow/state"
)

const (
	// MinSuperpositionSize and MaxSuperpositionSize bound the per-call
	// combination width.
	MinSuperpositionSize = 2
	MaxSuperpositionSize = 64

	// DefaultPatternThreshold filters negligible probability slots.
	DefaultPatternThreshold = 0.01

	// DefaultDominanceThreshold filters aggregated patterns.
	DefaultDominanceThreshold = 0.05
)

// ErrInvalidMaxSize indicates an out-of-range superposition width.
type ErrInvalidMaxSize struct {
	MaxSize int
}

func (e *ErrInvalidMaxSize) Error() string {
	return fmt.Sprintf("invalid max superposition size: %d (want %d..%d)",
		e.MaxSize, MinSuperpositionSize, MaxSuperpositionSize)
}

// DominantPattern is a pattern aggregated across many group analyses.
// Patterns are keyed by (rounded magnitude, rounded phase, index).
type DominantPattern struct {
	Index              int
	Magnitude          float64
	Phase              float64
	AverageProbability float64
	Occurrences        int
	Score              float64
}

// ProcessorOptions configures a Processor.
type ProcessorOptions struct {
	// MaxSuperpositionSize caps how many states one call combines
	// before switching to tree reduction.
	MaxSuperpositionSize int

	// PatternThreshold is the minimum probability a slot needs to be
	// reported as a pattern.
	PatternThreshold float64

	// CoherenceTime applies to every superposition this processor builds.
	CoherenceTime time.Duration

	// Workers bounds the parallel group fan-out. <= 0 selects the CPU
	// count.
	Workers int
}

// Processor builds superpositions and runs batch analyses over groups
// of state vectors. Safe for concurrent use.
type Processor struct {
	maxSize          int
	patternThreshold float64
	coherenceTime    time.Duration
	workers          *pool.Pool
}

// NewProcessor creates a Processor. optFns mutate the defaults.
func NewProcessor(optFns ...func(*ProcessorOptions)) (*Processor, error) {
	opts := ProcessorOptions{
		MaxSuperpositionSize: MaxSuperpositionSize,
		PatternThreshold:     DefaultPatternThreshold,
		CoherenceTime:        DefaultCoherenceTime,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	if opts.MaxSuperpositionSize < MinSuperpositionSize || opts.MaxSuperpositionSize > MaxSuperpositionSize {
		return nil, &ErrInvalidMaxSize{MaxSize: opts.MaxSuperpositionSize}
	}

	return &Processor{
		maxSize:          opts.MaxSuperpositionSize,
		patternThreshold: opts.PatternThreshold,
		coherenceTime:    opts.CoherenceTime,
		workers:          pool.New(opts.Workers),
	}, nil
}

// Close releases the processor's worker pool.
func (p *Processor) Close() { p.workers.Close() }

// Create builds a superposition over states.
//
// When the state count exceeds the configured maximum, states are
// recursively split into groups of maxSize/2, one representative vector
// is built per group, and the representatives are superposed. The tree
// reduction bounds the cost of any single combination.
func (p *Processor) Create(states []state.Vector, weights []float64) (*State, error) {
	if len(states) <= p.maxSize {
		return New(states, weights, p.coherenceTime)
	}

	groupSize := p.maxSize / 2
	representatives := make([]state.Vector, 0, (len(states)+groupSize-1)/groupSize)
	repWeights := make([]float64, 0, cap(representatives))

	for start := 0; start < len(states); start += groupSize {
		end := min(start+groupSize, len(states))

		var groupWeights []float64
		if weights != nil {
			groupWeights = weights[start:end]
		}

		group, err := p.Create(states[start:end], groupWeights)
		if err != nil {
			return nil, err
		}
		rep, err := group.Representative()
		if err != nil {
			return nil, err
		}

		representatives = append(representatives, rep)
		repWeights = append(repWeights, groupWeight(weights, start, end, len(states)))
	}

	return New(representatives, repWeights, p.coherenceTime)
}

// ProcessGroups builds one superposition per group and analyzes its
// amplitude patterns. Groups are independent pure computations, so they
// run on the worker pool; results are merged by original group index
// and are deterministic regardless of completion order.
func (p *Processor) ProcessGroups(ctx context.Context, groups [][]state.Vector) ([]GroupResult, error) {
	results := make([]GroupResult, len(groups))
	errs := make([]error, len(groups))

	var wg sync.WaitGroup
	for i, group := range groups {
		i, group := i, group
		wg.Add(1)
		submitErr := p.workers.Submit(ctx, func() {
			defer wg.Done()
			s, err := p.Create(group, nil)
			if err != nil {
				errs[i] = fmt.Errorf("group %d: %w", i, err)
				return
			}
			results[i] = GroupResult{
				GroupIndex:    i,
				Superposition: s,
				Patterns:      s.AnalyzeAmplitudes(p.patternThreshold),
			}
		})
		if submitErr != nil {
			wg.Done()
			// Cancelled or closed: wait for what was already queued.
			wg.Wait()
			return nil, submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// GroupResult pairs a group's superposition with its pattern analysis.
type GroupResult struct {
	GroupIndex    int
	Superposition *State
	Patterns      []Pattern
}

// AggregateDominantPatterns merges per-group pattern analyses.
// A pattern key is (rounded magnitude, rounded phase, index); the
// dominance score is 0.7*averageProbability + 0.3*(occurrences/groups).
// Patterns below dominanceThreshold are dropped; the result sorts by
// descending score.
func AggregateDominantPatterns(analyses [][]Pattern, dominanceThreshold float64) []DominantPattern {
	if len(analyses) == 0 {
		return nil
	}

	type bucket struct {
		pattern     Pattern
		totalProb   float64
		occurrences int
		order       int
	}

	buckets := make(map[string]*bucket)
	order := 0
	for _, patterns := range analyses {
		for _, pat := range patterns {
			key := fmt.Sprintf("%.3f|%.3f|%d",
				roundTo(pat.Magnitude, 3), roundTo(pat.Phase, 3), pat.Index)
			b, ok := buckets[key]
			if !ok {
				b = &bucket{pattern: pat, order: order}
				order++
				buckets[key] = b
			}
			b.totalProb += pat.Probability
			b.occurrences++
		}
	}

	totalGroups := float64(len(analyses))
	out := make([]DominantPattern, 0, len(buckets))
	for _, b := range buckets {
		avg := b.totalProb / float64(b.occurrences)
		score := 0.7*avg + 0.3*(float64(b.occurrences)/totalGroups)
		if score < dominanceThreshold {
			continue
		}
		out = append(out, DominantPattern{
			Index:              b.pattern.Index,
			Magnitude:          b.pattern.Magnitude,
			Phase:              b.pattern.Phase,
			AverageProbability: avg,
			Occurrences:        b.occurrences,
			Score:              score,
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Index < out[b].Index
	})
	return out
}

func groupWeight(weights []float64, start, end, total int) float64 {
	if weights == nil {
		return float64(end-start) / float64(total)
	}
	sum := 0.0
	for _, w := range weights[start:end] {
		sum += w
	}
	return sum
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
