package checksum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	a := Generate(data)
	b := Generate(data)

	assert.Equal(t, a.Hash, b.Hash)
	assert.Equal(t, a.PhaseHash, b.PhaseHash)
	assert.Equal(t, a.ProbabilityHash, b.ProbabilityHash)
	assert.Equal(t, len(data), a.DataSize)
	assert.Len(t, a.Hash, DefaultLength)
}

func TestGenerate_PositionSensitive(t *testing.T) {
	// Same byte multiset, different order: the position weighting must
	// keep the hashes apart.
	a := Generate([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	b := Generate([]byte{8, 7, 6, 5, 4, 3, 2, 1})
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestGenerate_Options(t *testing.T) {
	data := []byte("payload")

	bare := Generate(data, func(o *Options) {
		o.IncludePhase = false
		o.IncludeProbability = false
	})
	assert.Empty(t, bare.PhaseHash)
	assert.Empty(t, bare.ProbabilityHash)
	assert.NotEmpty(t, bare.Hash)

	long := Generate(data, func(o *Options) { o.Length = 32 })
	assert.Len(t, long.Hash, 32)

	// Out-of-range lengths clamp.
	tiny := Generate(data, func(o *Options) { o.Length = 1 })
	assert.Len(t, tiny.Hash, MinLength)
	huge := Generate(data, func(o *Options) { o.Length = 1000 })
	assert.Len(t, huge.Hash, MaxLength)
}

func TestVerify_Valid(t *testing.T) {
	data := []byte("stable content under verification")
	q := Generate(data)

	v := Verify(data, q)
	assert.True(t, v.Valid)
	assert.Greater(t, v.IntegrityScore, 0.95)
	assert.Equal(t, CorruptionNone, v.Corruption)
	assert.Zero(t, v.Severity)
}

func TestVerify_ContentCorruption(t *testing.T) {
	data := []byte("stable content under verification")
	q := Generate(data)

	corrupted := append([]byte(nil), data...)
	corrupted[5] ^= 0xFF

	v := Verify(corrupted, q)
	assert.False(t, v.Valid)
	assert.Less(t, v.IntegrityScore, 1.0)
	assert.Equal(t, CorruptionContent, v.Corruption)
	assert.Greater(t, v.Severity, 0.0)
}

func TestVerify_SizeMismatch(t *testing.T) {
	data := []byte("twelve bytes")
	q := Generate(data)

	v := Verify(data[:6], q)
	assert.False(t, v.Valid)
	assert.Equal(t, CorruptionSizeMismatch, v.Corruption)
	assert.InDelta(t, 0.5, v.Severity, 1e-12)
}

func TestVerify_Temporal(t *testing.T) {
	data := []byte("future frame")
	q := Generate(data)
	q.CreatedAt = time.Now().Add(time.Hour)
	q.Hash = "0000000000000000" // force a mismatch with matching size

	v := Verify(data, q)
	assert.False(t, v.Valid)
	assert.Equal(t, CorruptionTemporal, v.Corruption)
	assert.Equal(t, 0.5, v.Severity)
}

func TestVerify_SubChecksumAbsence(t *testing.T) {
	data := []byte("hash only")
	q := Generate(data, func(o *Options) {
		o.IncludePhase = false
		o.IncludeProbability = false
	})

	v := Verify(data, q)
	assert.True(t, v.Valid)
	require.InDelta(t, 1.0, v.IntegrityScore, 1e-12)
}

func TestFoldHash_Lengths(t *testing.T) {
	short := foldHash("abc", 8)
	assert.Len(t, short, 8)

	long := foldHash("abc", 48)
	assert.Len(t, long, 48)

	// Deterministic for equal input.
	assert.Equal(t, foldHash("abc", 48), foldHash("abc", 48))
	assert.NotEqual(t, foldHash("abc", 16), foldHash("abd", 16))
}
