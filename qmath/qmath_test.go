package qmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntropy(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want float64
	}{
		{name: "empty", data: nil, want: 0},
		{name: "constant", data: []byte{7, 7, 7, 7}, want: 0},
		{name: "two symbols", data: []byte{0, 1, 0, 1}, want: 1},
		{name: "four symbols", data: []byte{0, 1, 2, 3}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Entropy(tt.data), 1e-12)
		})
	}
}

func TestNormalizedEntropy_Range(t *testing.T) {
	uniform := make([]byte, 256)
	for i := range uniform {
		uniform[i] = byte(i)
	}
	assert.InDelta(t, 1.0, NormalizedEntropy(uniform), 1e-12)
	assert.Equal(t, 0.0, NormalizedEntropy([]byte{42, 42}))
}

func TestNormalize(t *testing.T) {
	amps := []complex128{complex(3, 0), complex(0, 4)}

	out, err := Normalize(amps)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, TotalProbability(out), 1e-10)
	assert.True(t, Normalized(out))

	// Input is untouched.
	assert.Equal(t, complex(3, 0), amps[0])
}

func TestNormalize_ZeroMagnitude(t *testing.T) {
	_, err := Normalize([]complex128{0, 0})
	assert.ErrorIs(t, err, ErrZeroMagnitude)

	_, err = Probabilities([]complex128{0})
	assert.ErrorIs(t, err, ErrZeroMagnitude)
}

func TestProbabilities_SumToOne(t *testing.T) {
	amps := []complex128{complex(1, 1), complex(2, 0), complex(0, 0.5)}

	probs, err := Probabilities(amps)
	require.NoError(t, err)

	sum := 0.0
	for _, p := range probs {
		require.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-10)
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}
	inv := []float64{10, 8, 6, 4, 2}

	assert.InDelta(t, 1.0, Pearson(x, y), 1e-12)
	assert.InDelta(t, -1.0, Pearson(x, inv), 1e-12)
	assert.InDelta(t, 1.0, Pearson(x, x), 1e-12)
}

func TestPearson_ConstantSeries(t *testing.T) {
	flat := []float64{3, 3, 3}

	// Identical constants correlate perfectly, mixed ones not at all.
	assert.Equal(t, 1.0, Pearson(flat, []float64{3, 3, 3}))
	assert.Equal(t, 0.0, Pearson(flat, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, Pearson(flat, []float64{4, 4, 4}))
}

func TestPearson_LengthMismatch(t *testing.T) {
	// Overlapping prefix only.
	x := []float64{1, 2, 3, 100}
	y := []float64{2, 4, 6}
	assert.InDelta(t, 1.0, Pearson(x, y), 1e-12)

	assert.Equal(t, 0.0, Pearson(nil, y))
}

func TestSpearman_Monotonic(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{10, 100, 1000, 10000} // nonlinear but monotone

	assert.InDelta(t, 1.0, Spearman(x, y), 1e-12)
	assert.InDelta(t, -1.0, Spearman(x, []float64{4, 3, 2, 1}), 1e-12)
}

func TestRanks(t *testing.T) {
	assert.Equal(t, []float64{1, 0, 2}, Ranks([]float64{5, 1, 9}))
	// Ties keep original order.
	assert.Equal(t, []float64{0, 1, 2}, Ranks([]float64{2, 2, 2}))
}

func TestMutualInformation(t *testing.T) {
	x := []float64{0, 0, 1, 1, 0, 0, 1, 1}

	// A variable carries full information about itself.
	mi := MutualInformation(x, x, 2)
	assert.InDelta(t, 1.0, mi, 1e-12)
	assert.InDelta(t, 1.0, NormalizedMutualInformation(x, x, 2), 1e-12)

	// Independent-looking alternation against a constant carries none.
	assert.Equal(t, 0.0, MutualInformation(x, []float64{5, 5, 5, 5, 5, 5, 5, 5}, 2))
}

func TestPhaseVariance(t *testing.T) {
	same := []complex128{FromPolar(1, 0.5), FromPolar(2, 0.5), FromPolar(0.1, 0.5)}
	assert.InDelta(t, 0.0, PhaseVariance(same), 1e-12)

	spread := []complex128{FromPolar(1, 0), FromPolar(1, math.Pi/2)}
	assert.Greater(t, PhaseVariance(spread), 0.0)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 1.0, Clamp01(1.5))
	assert.Equal(t, 0.25, Clamp01(0.25))
}

func TestFromPolar(t *testing.T) {
	a := FromPolar(2, math.Pi/2)
	assert.InDelta(t, 0, real(a), 1e-12)
	assert.InDelta(t, 2, imag(a), 1e-12)
}
