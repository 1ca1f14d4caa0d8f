// Package entanglement finds and scores correlated state-vector pairs
// and extracts the redundant bytes they share.
package entanglement

import (
	"fmt"
	"hash/fnv"
	"sync/atomic"
	"time"

	"github.com/parthchhabraa/quantumflow/qmath"
	"github.com/parthchhabraa/quantumflow/state"
)

const (
	// MinCorrelationStrength is the floor below which two vectors are
	// not considered entangled at all; pair construction fails under it.
	MinCorrelationStrength = 0.1

	// DefaultCorrelationThreshold is the default acceptance threshold
	// for pair matching.
	DefaultCorrelationThreshold = 0.5

	// byteSimilarityThreshold gates which byte positions contribute to
	// the shared buffer.
	byteSimilarityThreshold = 0.7
)

// ErrWeakCorrelation indicates two vectors whose correlation strength
// is below MinCorrelationStrength.
type ErrWeakCorrelation struct {
	Strength float64
}

func (e *ErrWeakCorrelation) Error() string {
	return fmt.Sprintf("correlation strength %.4f below minimum %.2f",
		e.Strength, MinCorrelationStrength)
}

var pairSeq atomic.Uint64

// Pair binds two correlated vectors under a shared entanglement tag.
//
// The pair owns clones of both vectors; the tag is a correlation label,
// not an ownership relation.
type Pair struct {
	id          string
	first       state.Vector
	second      state.Vector
	correlation float64
	shared      []byte
	createdAt   time.Time
}

// NewPair builds a Pair from two vectors. The correlation strength is
// computed at construction via the composite correlation measure; if it
// falls below MinCorrelationStrength, construction fails.
func NewPair(a, b state.Vector) (*Pair, error) {
	return newPair(a, b, AdvancedCorrelation(a, b))
}

func newPair(a, b state.Vector, strength float64) (*Pair, error) {
	if strength < MinCorrelationStrength {
		return nil, &ErrWeakCorrelation{Strength: strength}
	}

	id := newEntanglementID(a, b)
	return &Pair{
		id:          id,
		first:       a.Clone().WithEntanglementID(id),
		second:      b.Clone().WithEntanglementID(id),
		correlation: strength,
		shared:      ExtractSharedInformation(a, b),
		createdAt:   time.Now(),
	}, nil
}

// NewPairIfCorrelated builds a Pair only when the composite correlation
// reaches threshold; otherwise it returns (nil, nil). Sub-minimum
// correlations are not an error here, just a non-match.
func NewPairIfCorrelated(a, b state.Vector, threshold float64) (*Pair, error) {
	if threshold < MinCorrelationStrength {
		threshold = MinCorrelationStrength
	}
	if AdvancedCorrelation(a, b) < threshold {
		return nil, nil
	}
	return NewPair(a, b)
}

// ID returns the shared entanglement tag.
func (p *Pair) ID() string { return p.id }

// First returns a copy of the first tagged vector.
func (p *Pair) First() state.Vector { return p.first.Clone() }

// Second returns a copy of the second tagged vector.
func (p *Pair) Second() state.Vector { return p.second.Clone() }

// CorrelationStrength returns the composite correlation in [0, 1].
func (p *Pair) CorrelationStrength() float64 { return p.correlation }

// SharedInformation returns a copy of the shared byte buffer.
func (p *Pair) SharedInformation() []byte {
	out := make([]byte, len(p.shared))
	copy(out, p.shared)
	return out
}

// CreatedAt returns the pair's construction time.
func (p *Pair) CreatedAt() time.Time { return p.createdAt }

// AdvancedCorrelation computes the composite correlation strength of
// two vectors over their overlapping amplitude range:
//
//	0.3*|Pearson| + 0.2*|Spearman| + 0.2*normalizedMI + 0.3*structural
//
// clamped to [0, 1].
func AdvancedCorrelation(a, b state.Vector) float64 {
	n := min(a.Len(), b.Len())
	if n == 0 {
		return 0
	}

	magsA := qmath.Magnitudes(a.Amplitudes()[:n])
	magsB := qmath.Magnitudes(b.Amplitudes()[:n])

	pearson := qmath.Pearson(magsA, magsB)
	spearman := qmath.Spearman(magsA, magsB)
	nmi := qmath.NormalizedMutualInformation(magsA, magsB, 8)
	structural := structuralSimilarity(a, b)

	score := 0.3*abs(pearson) + 0.2*abs(spearman) + 0.2*nmi + 0.3*structural
	return qmath.Clamp01(score)
}

// ExtractSharedInformation derives the redundant bytes of two vectors.
// For each overlapping byte position, similarity is 1 - |a-b|/255;
// positions above the similarity threshold contribute the average of
// the two bytes.
func ExtractSharedInformation(a, b state.Vector) []byte {
	bytesA := a.ToBytes()
	bytesB := b.ToBytes()
	n := min(len(bytesA), len(bytesB))

	shared := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		va, vb := int(bytesA[i]), int(bytesB[i])
		similarity := 1 - abs(float64(va-vb))/255.0
		if similarity > byteSimilarityThreshold {
			shared = append(shared, byte((va+vb)/2))
		}
	}
	return shared
}

// EstimateCompressibility scans the shared buffer with sub-windows of
// length 2..8 and scores recurring patterns: each pattern occurring k>1
// times contributes (k-1)*len saved bytes to the estimate.
func EstimateCompressibility(shared []byte) int {
	estimate := 0
	for length := 2; length <= 8 && length <= len(shared); length++ {
		counts := make(map[string]int)
		for i := 0; i+length <= len(shared); i++ {
			counts[string(shared[i:i+length])]++
		}
		for _, k := range counts {
			if k > 1 {
				estimate += (k - 1) * length
			}
		}
	}
	return estimate
}

func structuralSimilarity(a, b state.Vector) float64 {
	bytesA := a.ToBytes()
	bytesB := b.ToBytes()
	n := min(len(bytesA), len(bytesB))
	if n == 0 {
		return 0
	}

	total := 0.0
	for i := 0; i < n; i++ {
		diff := abs(float64(int(bytesA[i]) - int(bytesB[i])))
		total += 1 - diff/255.0
	}
	return total / float64(n)
}

func newEntanglementID(a, b state.Vector) string {
	h := fnv.New64a()
	h.Write([]byte(a.Fingerprint()))
	h.Write([]byte(b.Fingerprint()))
	return fmt.Sprintf("ent-%x-%d", h.Sum64(), pairSeq.Add(1))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
