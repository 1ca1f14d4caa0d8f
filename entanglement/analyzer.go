package entanglement

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/parthchhabraa/quantumflow/resource"
	"github.com/parthchhabraa/quantumflow/state"
)

const (
	// DefaultMaxPairs caps the pairs one matching pass may select.
	DefaultMaxPairs = 64

	// defaultMatrixWorkers bounds the parallel row fan-out when no
	// explicit worker count is configured.
	defaultMatrixWorkers = 4
)

// AnalyzerOptions configures an Analyzer.
type AnalyzerOptions struct {
	// MinCorrelationThreshold is the acceptance floor for matching.
	MinCorrelationThreshold float64

	// MaxPairs caps selected pairs per FindPairs call.
	MaxPairs int

	// Workers bounds the parallel correlation fan-out.
	Workers int

	// Governor meters correlation-cell computation. May be nil.
	Governor *resource.Governor
}

// Analyzer mines sets of state vectors for correlated pairs.
//
// Correlations are cached across calls under a structural fingerprint
// key (phase + amplitude sum + length), so repeated analyses over
// overlapping state sets skip recomputation. Safe for concurrent use.
type Analyzer struct {
	minCorrelation float64
	maxPairs       int
	workers        int
	governor       *resource.Governor

	mu    sync.RWMutex
	cache map[string]float64
}

// NewAnalyzer creates an Analyzer. optFns mutate the defaults.
func NewAnalyzer(optFns ...func(*AnalyzerOptions)) (*Analyzer, error) {
	opts := AnalyzerOptions{
		MinCorrelationThreshold: DefaultCorrelationThreshold,
		MaxPairs:                DefaultMaxPairs,
		Workers:                 defaultMatrixWorkers,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	if opts.MinCorrelationThreshold < MinCorrelationStrength || opts.MinCorrelationThreshold > 1 {
		return nil, fmt.Errorf("correlation threshold %.4f out of range [%.2f,1]",
			opts.MinCorrelationThreshold, MinCorrelationStrength)
	}
	if opts.MaxPairs <= 0 {
		opts.MaxPairs = DefaultMaxPairs
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultMatrixWorkers
	}

	return &Analyzer{
		minCorrelation: opts.MinCorrelationThreshold,
		maxPairs:       opts.MaxPairs,
		workers:        opts.Workers,
		governor:       opts.Governor,
		cache:          make(map[string]float64),
	}, nil
}

// candidate is one upper-triangle cell of the correlation matrix.
type candidate struct {
	i, j        int
	correlation float64
}

// CorrelationMatrix computes the full pairwise composite correlation of
// states. The returned matrix is symmetric with unit diagonal.
//
// Rows are computed in parallel; every cell consults the governor, so a
// cancelled context aborts mid-matrix.
func (a *Analyzer) CorrelationMatrix(ctx context.Context, states []state.Vector) ([][]float64, error) {
	n := len(states)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			for j := i + 1; j < n; j++ {
				if err := a.governor.WaitCells(ctx, 1); err != nil {
					return err
				}
				corr := a.correlation(states[i], states[j])
				matrix[i][j] = corr
				matrix[j][i] = corr
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matrix, nil
}

// FindPairs generates all candidate pairs, sorts them by descending
// correlation, and greedily selects a matching: each state joins at
// most one pair, pairs are accepted while their correlation stays at or
// above the threshold, and selection stops at the first sorted
// candidate below it. The pair count is capped at MaxPairs.
//
// The greedy pass is a non-optimal maximum-weight matching; ties keep
// generation order (sort stability).
func (a *Analyzer) FindPairs(ctx context.Context, states []state.Vector) ([]*Pair, error) {
	matrix, err := a.CorrelationMatrix(ctx, states)
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, len(states)*(len(states)-1)/2)
	for i := 0; i < len(states); i++ {
		for j := i + 1; j < len(states); j++ {
			candidates = append(candidates, candidate{i: i, j: j, correlation: matrix[i][j]})
		}
	}
	sort.SliceStable(candidates, func(x, y int) bool {
		return candidates[x].correlation > candidates[y].correlation
	})

	matched := roaring.New()
	pairs := make([]*Pair, 0, a.maxPairs)
	for _, c := range candidates {
		if c.correlation < a.minCorrelation {
			break
		}
		if len(pairs) >= a.maxPairs {
			break
		}
		if matched.Contains(uint32(c.i)) || matched.Contains(uint32(c.j)) {
			continue
		}

		pair, err := NewPair(states[c.i], states[c.j])
		if err != nil {
			// Above threshold implies above the construction minimum.
			return nil, err
		}
		pairs = append(pairs, pair)
		matched.Add(uint32(c.i))
		matched.Add(uint32(c.j))
	}

	return pairs, nil
}

// CacheSize returns the number of cached correlations.
func (a *Analyzer) CacheSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cache)
}

// ResetCache drops all cached correlations.
func (a *Analyzer) ResetCache() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache = make(map[string]float64)
}

func (a *Analyzer) correlation(x, y state.Vector) float64 {
	key := x.Fingerprint() + "||" + y.Fingerprint()

	a.mu.RLock()
	corr, ok := a.cache[key]
	a.mu.RUnlock()
	if ok {
		return corr
	}

	corr = AdvancedCorrelation(x, y)

	a.mu.Lock()
	a.cache[key] = corr
	a.mu.Unlock()
	return corr
}
