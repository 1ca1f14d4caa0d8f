package checksum

import (
	"fmt"
	"hash/fnv"
	"math/cmplx"
	"strings"
	"time"
)

const (
	// DefaultLength is the default folded hash length in hex characters.
	DefaultLength = 16

	// MinLength and MaxLength bound the folded hash length.
	MinLength = 8
	MaxLength = 64

	// validThreshold is the minimum integrity score for Valid.
	validThreshold = 0.999
)

// Options configures quantum checksum generation.
type Options struct {
	// Length is the folded hash length in hex characters.
	Length int

	// IncludePhase adds the phase-sum sub-checksum.
	IncludePhase bool

	// IncludeProbability adds the probability-sum sub-checksum.
	IncludeProbability bool
}

// Quantum is an amplitude-derived checksum of a byte buffer.
//
// Bytes are consumed pairwise as {real, imaginary} amplitude-like
// pairs; the main hash folds their weighted magnitude and phase
// contributions, and the optional sub-checksums fold the plain phase
// and probability sums.
type Quantum struct {
	Hash            string    `json:"hash"`
	PhaseHash       string    `json:"phaseHash,omitempty"`
	ProbabilityHash string    `json:"probabilityHash,omitempty"`
	DataSize        int       `json:"dataSize"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CorruptionKind classifies a failed verification.
type CorruptionKind int

const (
	CorruptionNone CorruptionKind = iota
	CorruptionContent
	CorruptionSizeMismatch
	CorruptionTemporal
)

func (k CorruptionKind) String() string {
	switch k {
	case CorruptionNone:
		return "none"
	case CorruptionContent:
		return "content-corruption"
	case CorruptionSizeMismatch:
		return "size-mismatch"
	case CorruptionTemporal:
		return "temporal-inconsistency"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Verification is the structured result of a checksum check.
// Mismatches are reported here, never as errors.
type Verification struct {
	Valid          bool
	IntegrityScore float64
	Corruption     CorruptionKind
	Severity       float64
}

// Generate computes the quantum checksum of data.
func Generate(data []byte, optFns ...func(*Options)) Quantum {
	opts := Options{
		Length:             DefaultLength,
		IncludePhase:       true,
		IncludeProbability: true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Length < MinLength {
		opts.Length = MinLength
	} else if opts.Length > MaxLength {
		opts.Length = MaxLength
	}

	var magnitudeSum, phaseSum, probabilitySum float64
	pair := 0
	for i := 0; i < len(data); i += 2 {
		re := (float64(data[i]) + 1) / 256.0
		im := 0.0
		if i+1 < len(data) {
			im = (float64(data[i+1]) + 1) / 256.0
		}
		a := complex(re, im)
		magnitude := cmplx.Abs(a)
		phase := cmplx.Phase(a)

		// Position weighting keeps permuted buffers from colliding.
		weight := float64(pair + 1)
		magnitudeSum += magnitude * weight
		phaseSum += phase
		probabilitySum += magnitude * magnitude
		pair++
	}

	base := fmt.Sprintf("%.12f|%.12f|%d", magnitudeSum, phaseSum, len(data))

	q := Quantum{
		DataSize:  len(data),
		CreatedAt: time.Now(),
	}
	if opts.IncludePhase {
		q.PhaseHash = foldHash(fmt.Sprintf("phase|%.12f", phaseSum), opts.Length)
	}
	if opts.IncludeProbability {
		q.ProbabilityHash = foldHash(fmt.Sprintf("prob|%.12f", probabilitySum), opts.Length)
	}
	q.Hash = foldHash(base+q.PhaseHash+q.ProbabilityHash, opts.Length)
	return q
}

// Verify recomputes the checksum of data and compares it against
// expected. The integrity score weights the main hash 0.6 and the
// phase/probability sub-checksums 0.2 each, renormalized when a
// component is absent.
func Verify(data []byte, expected Quantum) Verification {
	recomputed := Generate(data, func(o *Options) {
		o.Length = len(expected.Hash)
		o.IncludePhase = expected.PhaseHash != ""
		o.IncludeProbability = expected.ProbabilityHash != ""
	})

	totalWeight := 0.6
	score := 0.6 * matchScore(expected.Hash, recomputed.Hash)
	if expected.PhaseHash != "" {
		totalWeight += 0.2
		score += 0.2 * matchScore(expected.PhaseHash, recomputed.PhaseHash)
	}
	if expected.ProbabilityHash != "" {
		totalWeight += 0.2
		score += 0.2 * matchScore(expected.ProbabilityHash, recomputed.ProbabilityHash)
	}
	score /= totalWeight

	v := Verification{
		IntegrityScore: score,
		Valid:          score >= validThreshold && len(data) == expected.DataSize,
	}
	if v.Valid {
		return v
	}

	switch {
	case len(data) != expected.DataSize:
		v.Corruption = CorruptionSizeMismatch
		v.Severity = relativeSizeDelta(len(data), expected.DataSize)
	case expected.CreatedAt.After(time.Now().Add(time.Second)):
		v.Corruption = CorruptionTemporal
		v.Severity = 0.5
	default:
		v.Corruption = CorruptionContent
		v.Severity = charDifferenceRatio(expected.Hash, recomputed.Hash)
	}
	return v
}

// matchScore is 1 for an exact hash match and the matching-character
// ratio otherwise, so near-misses grade higher than total mismatches.
func matchScore(expected, actual string) float64 {
	if expected == actual {
		return 1
	}
	return 1 - charDifferenceRatio(expected, actual)
}

func charDifferenceRatio(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}

	diff := 0
	for i := 0; i < maxLen; i++ {
		if i >= len(a) || i >= len(b) || a[i] != b[i] {
			diff++
		}
	}
	return float64(diff) / float64(maxLen)
}

func relativeSizeDelta(actual, expected int) float64 {
	if expected == 0 {
		if actual == 0 {
			return 0
		}
		return 1
	}
	delta := float64(actual-expected) / float64(expected)
	if delta < 0 {
		delta = -delta
	}
	if delta > 1 {
		delta = 1
	}
	return delta
}

// foldHash hashes s with FNV-64a and repeats the hex digest to the
// requested length.
func foldHash(s string, length int) string {
	h := fnv.New64a()
	h.Write([]byte(s))
	digest := fmt.Sprintf("%016x", h.Sum64())

	if len(digest) >= length {
		return digest[:length]
	}
	var sb strings.Builder
	for sb.Len() < length {
		// Re-hash the running digest so the tail is not a plain repeat.
		h.Write([]byte(digest))
		digest = fmt.Sprintf("%016x", h.Sum64())
		sb.WriteString(digest)
	}
	return sb.String()[:length]
}
