package entanglement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthchhabraa/quantumflow/state"
)

func mustVector(t *testing.T, data []byte) state.Vector {
	t.Helper()
	v, err := state.FromBytes(data, len(data))
	require.NoError(t, err)
	return v
}

func TestNewPair_Correlated(t *testing.T) {
	a := mustVector(t, []byte{10, 20, 30, 40, 50, 60, 70, 80})
	b := mustVector(t, []byte{12, 22, 32, 42, 52, 62, 72, 82})

	pair, err := NewPair(a, b)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.ID())
	assert.GreaterOrEqual(t, pair.CorrelationStrength(), MinCorrelationStrength)
	assert.LessOrEqual(t, pair.CorrelationStrength(), 1.0)

	// Both halves carry the shared tag; the inputs stay untagged.
	assert.Equal(t, pair.ID(), pair.First().EntanglementID())
	assert.Equal(t, pair.ID(), pair.Second().EntanglementID())
	assert.Empty(t, a.EntanglementID())
	assert.Empty(t, b.EntanglementID())
}

func TestNewPair_UniqueIDs(t *testing.T) {
	a := mustVector(t, []byte{1, 2, 3, 4})
	b := mustVector(t, []byte{1, 2, 3, 5})

	p1, err := NewPair(a, b)
	require.NoError(t, err)
	p2, err := NewPair(a, b)
	require.NoError(t, err)

	assert.NotEqual(t, p1.ID(), p2.ID())
}

func TestNewPair_WeakCorrelation(t *testing.T) {
	a := mustVector(t, []byte{10, 20, 30, 40})
	b := mustVector(t, []byte{200, 150, 90, 30})

	// The structural term keeps populated overlapping windows above the
	// floor, so drive the guard directly with a sub-minimum strength.
	_, err := newPair(a, b, 0.05)
	var weak *ErrWeakCorrelation
	require.ErrorAs(t, err, &weak)
	assert.InDelta(t, 0.05, weak.Strength, 1e-12)
	assert.Less(t, weak.Strength, MinCorrelationStrength)

	// A vector with no amplitudes overlaps nothing; its computed
	// correlation is 0 and the public constructor fails the same way.
	var empty state.Vector
	_, err = NewPair(empty, a)
	require.ErrorAs(t, err, &weak)
	assert.Equal(t, 0.0, weak.Strength)
}

func TestNewPairIfCorrelated(t *testing.T) {
	a := mustVector(t, []byte{10, 20, 30, 40})
	b := mustVector(t, []byte{11, 21, 31, 41})

	pair, err := NewPairIfCorrelated(a, b, DefaultCorrelationThreshold)
	require.NoError(t, err)
	require.NotNil(t, pair)

	// An impossible threshold yields a non-match, not an error.
	pair, err = NewPairIfCorrelated(a, b, 1.1)
	require.NoError(t, err)
	assert.Nil(t, pair)
}

func TestAdvancedCorrelation_SelfIsNearMaximal(t *testing.T) {
	v := mustVector(t, []byte{5, 90, 17, 200, 33, 120, 64, 250})

	// Pearson, Spearman and structural similarity all hit 1 against
	// itself; only the binned mutual-information term can fall short.
	self := AdvancedCorrelation(v, v)
	assert.Greater(t, self, 0.9)
	assert.LessOrEqual(t, self, 1.0)
}

func TestAdvancedCorrelation_Bounds(t *testing.T) {
	a := mustVector(t, []byte{0, 50, 100, 150, 200, 250})
	b := mustVector(t, []byte{250, 200, 150, 100, 50, 0})

	score := AdvancedCorrelation(a, b)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestExtractSharedInformation(t *testing.T) {
	a := mustVector(t, []byte{100, 100, 100, 100})
	b := mustVector(t, []byte{100, 100, 100, 100})

	shared := ExtractSharedInformation(a, b)
	// Identical vectors share every position.
	assert.Len(t, shared, 4)
}

func TestExtractSharedInformation_DissimilarPositions(t *testing.T) {
	a := mustVector(t, []byte{0, 255, 0, 255})
	b := mustVector(t, []byte{255, 0, 255, 0})

	// Opposite alternation: every position pairs a near-zero magnitude
	// with a dominant one, far below the similarity threshold.
	shared := ExtractSharedInformation(a, b)
	assert.Empty(t, shared)
}

func TestEstimateCompressibility(t *testing.T) {
	// "ababab": "ab" occurs 3 times at length 2 alone.
	repetitive := []byte("ababab")
	assert.Greater(t, EstimateCompressibility(repetitive), 0)

	// All-distinct bytes have no recurring window.
	assert.Equal(t, 0, EstimateCompressibility([]byte{1, 2, 3, 4, 5}))

	assert.Equal(t, 0, EstimateCompressibility(nil))
}

func TestPair_SharedInformationCopy(t *testing.T) {
	a := mustVector(t, []byte{50, 50, 50, 50})
	pair, err := NewPair(a, a)
	require.NoError(t, err)

	shared := pair.SharedInformation()
	if len(shared) > 0 {
		shared[0] ^= 0xFF
		assert.NotEqual(t, shared[0], pair.SharedInformation()[0])
	}
}
