package qec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthchhabraa/quantumflow/qmath"
	"github.com/parthchhabraa/quantumflow/state"
)

func mustVector(t *testing.T, data []byte) state.Vector {
	t.Helper()
	v, err := state.FromBytes(data, len(data))
	require.NoError(t, err)
	return v
}

func TestEncode(t *testing.T) {
	v := mustVector(t, []byte{10, 20, 30, 40})

	enc, err := Encode(v)
	require.NoError(t, err)
	require.NoError(t, enc.Validate())

	for r := 0; r < 3; r++ {
		require.Len(t, enc.Repetition[r], v.Len())
		for i := 0; i < v.Len(); i++ {
			assert.Equal(t, v.At(i), enc.Repetition[r][i])
		}
	}
	assert.Len(t, enc.Parity, v.Len()/2)
	assert.NotEmpty(t, enc.Checksum)
	assert.Equal(t, hammingParityBits(v.Len()), enc.Hamming.ParityBits)
	assert.Len(t, enc.Hamming.Matrix, enc.Hamming.ParityBits)
}

func TestEncode_Empty(t *testing.T) {
	_, err := Encode(state.Vector{})
	assert.ErrorIs(t, err, state.ErrEmptyVector)
}

func TestHammingParityBits(t *testing.T) {
	// ceil(log2(n + ceil(log2 n) + 1)) for n >= 1.
	assert.Equal(t, 0, hammingParityBits(0))
	assert.Equal(t, 1, hammingParityBits(1))
	assert.Equal(t, 2, hammingParityBits(2))
	assert.Equal(t, 3, hammingParityBits(4))
	assert.Equal(t, 4, hammingParityBits(8))
	assert.Equal(t, 5, hammingParityBits(16))
}

func TestDecode_Uncorrupted(t *testing.T) {
	v := mustVector(t, []byte{10, 20, 30, 40})
	enc, err := Encode(v)
	require.NoError(t, err)

	c := NewCorrector()
	res, err := c.Decode(enc, v.Clone())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Attempts)
	assert.Zero(t, res.TotalDetected)
	assert.Zero(t, res.TotalCorrected)
	assert.Zero(t, res.FallbacksUsed)
	assert.True(t, res.CorruptedIndices.IsEmpty())
	assert.True(t, res.State.Equal(v, 1e-9))
}

func TestDecode_ZeroedAmplitude(t *testing.T) {
	v := mustVector(t, []byte{10, 20, 30, 40})
	enc, err := Encode(v)
	require.NoError(t, err)

	// Wipe one amplitude; the renormalization spreads the damage over
	// the remaining slots.
	corrupted, err := v.WithAmplitude(2, 0)
	require.NoError(t, err)

	c := NewCorrector()
	res, err := c.Decode(enc, corrupted)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Attempts)
	assert.Greater(t, res.TotalDetected, 0)
	assert.Greater(t, res.TotalCorrected, 0)
	assert.True(t, res.CorruptedIndices.Contains(2))

	// The repaired vector is close to the reference again.
	report := DefaultDetector{}.Detect(v, res.State, DefaultErrorThreshold)
	assert.False(t, report.Corrupted)

	// The candidate itself was never mutated.
	assert.InDelta(t, 0.0, real(corrupted.At(2)), 1e-12)
}

func TestDecode_PhaseDrift(t *testing.T) {
	v := mustVector(t, []byte{10, 20, 30, 40})
	enc, err := Encode(v)
	require.NoError(t, err)

	drifted, err := v.WithAmplitude(1, qmath.FromPolar(0.371, 2.5))
	require.NoError(t, err)

	c := NewCorrector()
	res, err := c.Decode(enc, drifted)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Greater(t, res.TotalCorrected, 0)
}

func TestDecode_EntanglementTagRestored(t *testing.T) {
	tagged := mustVector(t, []byte{10, 20, 30, 40}).WithEntanglementID("pair-7")
	enc, err := Encode(tagged)
	require.NoError(t, err)

	// Same amplitudes, lost tag.
	untagged := mustVector(t, []byte{10, 20, 30, 40})

	c := NewCorrector()
	res, err := c.Decode(enc, untagged)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "pair-7", res.State.EntanglementID())
	assert.Equal(t, 1, res.TotalCorrected)
}

func TestDecode_FallbackToOriginal(t *testing.T) {
	v := mustVector(t, []byte{10, 20, 30, 40})
	enc, err := Encode(v)
	require.NoError(t, err)

	// Sabotage the repetition copies so the first repair pass rebuilds
	// garbage and the corrector must fall back to the original.
	for r := 0; r < 3; r++ {
		for i := range enc.Repetition[r] {
			enc.Repetition[r][i] = complex(100, 0)
		}
	}

	corrupted, err := v.WithAmplitude(2, 0)
	require.NoError(t, err)

	c := NewCorrector()
	res, err := c.Decode(enc, corrupted)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 1, res.FallbacksUsed)
	assert.True(t, res.State.Equal(v, 1e-9))
}

func TestDecode_InvalidBundle(t *testing.T) {
	c := NewCorrector()

	_, err := c.Decode(nil, state.Vector{})
	assert.ErrorIs(t, err, ErrEmptyBundle)
}

func TestMajorityVote(t *testing.T) {
	a := complex(0.2, 0)
	b := complex(0.9, 0)
	c := complex(1.0, 0)

	// The median magnitude wins.
	assert.Equal(t, b, majorityVote(a, b, c))

	// Ties keep the first minimal-distance candidate.
	x := complex(1, 0)
	y := complex(0, 1) // same magnitude as x
	z := complex(0.5, 0)
	assert.Equal(t, x, majorityVote(x, y, z))
}

func TestFidelity(t *testing.T) {
	v := mustVector(t, []byte{10, 20, 30, 40})

	// The simplified fidelity of a vector against itself is the mean
	// squared magnitude: 1/n for a unit vector.
	assert.InDelta(t, 0.25, Fidelity(v, v), 1e-9)

	assert.Equal(t, 0.0, Fidelity(state.Vector{}, v))

	single := mustVector(t, []byte{200})
	assert.InDelta(t, 1.0, Fidelity(single, single), 1e-9)
}

func TestDefaultDetector_Classification(t *testing.T) {
	v := mustVector(t, []byte{10, 20, 30, 40})

	t.Run("clean", func(t *testing.T) {
		report := DefaultDetector{}.Detect(v, v.Clone(), DefaultErrorThreshold)
		assert.False(t, report.Corrupted)
		assert.Zero(t, report.ErrorCount())
	})

	t.Run("phase", func(t *testing.T) {
		drifted, err := v.WithAmplitude(1, qmath.FromPolar(0.371, 2.5))
		require.NoError(t, err)

		report := DefaultDetector{}.Detect(v, drifted, DefaultErrorThreshold)
		require.True(t, report.Corrupted)

		var kinds []ErrorKind
		for _, e := range report.Errors {
			kinds = append(kinds, e.Kind)
		}
		assert.Contains(t, kinds, KindPhase)
	})

	t.Run("entanglement", func(t *testing.T) {
		report := DefaultDetector{}.Detect(v.WithEntanglementID("a"), v, DefaultErrorThreshold)
		require.True(t, report.Corrupted)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, KindEntanglement, report.Errors[0].Kind)
		assert.Equal(t, -1, report.Errors[0].Index)
	})
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "amplitude", KindAmplitude.String())
	assert.Equal(t, "phase", KindPhase.String())
	assert.Equal(t, "normalization", KindNormalization.String())
	assert.Equal(t, "entanglement", KindEntanglement.String())
}
