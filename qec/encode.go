// Package qec protects state vectors with redundancy encoding,
// multi-attempt correction, integrity verification, and classical
// degradation when the quantum-inspired path is unusable.
package qec

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/parthchhabraa/quantumflow/checksum"
	"github.com/parthchhabraa/quantumflow/state"
)

// ErrEmptyBundle is returned when decoding a nil or empty bundle.
var ErrEmptyBundle = errors.New("empty error-correction bundle")

// Hamming holds the Hamming-style parity structure of a bundle.
type Hamming struct {
	// Matrix is the parity-check membership matrix: Matrix[p][i] is 1
	// when amplitude i participates in parity group p.
	Matrix [][]int

	// Syndromes are the complex parity sums, one per parity group.
	Syndromes []complex128

	// ParityBits is the parity group count:
	// ceil(log2(n + ceil(log2 n) + 1)).
	ParityBits int
}

// Encoded is the in-memory error-correction bundle protecting one
// state vector. It is consumed only by the corrector; no wire format
// is defined for it.
type Encoded struct {
	Original   state.Vector
	Repetition [3][]complex128
	Parity     []complex128
	Hamming    Hamming
	Syndromes  [3][]complex128
	Checksum   string
	CreatedAt  time.Time
}

// fixedSyndromePatterns are the three projection masks applied to every
// bundle: alternating slots, leading half, and every third slot.
var fixedSyndromePatterns = [3]func(i, n int) bool{
	func(i, _ int) bool { return i%2 == 0 },
	func(i, n int) bool { return i < (n+1)/2 },
	func(i, _ int) bool { return i%3 == 0 },
}

// Encode builds the error-correction bundle for v: a 3-way repetition
// code, pairwise parity sums, a Hamming-style parity matrix, three
// fixed-pattern syndromes, and a weighted-amplitude checksum.
func Encode(v state.Vector) (*Encoded, error) {
	if v.Len() == 0 {
		return nil, state.ErrEmptyVector
	}

	amps := v.Amplitudes()
	n := len(amps)

	var repetition [3][]complex128
	for r := 0; r < 3; r++ {
		repetition[r] = make([]complex128, n)
		copy(repetition[r], amps)
	}

	parity := make([]complex128, n/2)
	for i := 0; i+1 < n; i += 2 {
		parity[i/2] = amps[i] + amps[i+1]
	}

	var syndromes [3][]complex128
	for p, pattern := range fixedSyndromePatterns {
		projection := complex(0, 0)
		for i, a := range amps {
			if pattern(i, n) {
				projection += a
			}
		}
		syndromes[p] = []complex128{projection}
	}

	return &Encoded{
		Original:   v.Clone(),
		Repetition: repetition,
		Parity:     parity,
		Hamming:    buildHamming(amps),
		Syndromes:  syndromes,
		Checksum:   checksum.Generate(v.ToBytes()).Hash,
		CreatedAt:  time.Now(),
	}, nil
}

func buildHamming(amps []complex128) Hamming {
	n := len(amps)
	parityBits := hammingParityBits(n)

	matrix := make([][]int, parityBits)
	syndromes := make([]complex128, parityBits)
	for p := 0; p < parityBits; p++ {
		matrix[p] = make([]int, n)
		for i := 0; i < n; i++ {
			// Amplitude i joins parity group p when bit p of its
			// 1-based position is set, as in a classical Hamming code.
			if (i+1)&(1<<p) != 0 {
				matrix[p][i] = 1
				syndromes[p] += amps[i]
			}
		}
	}

	return Hamming{Matrix: matrix, Syndromes: syndromes, ParityBits: parityBits}
}

func hammingParityBits(n int) int {
	if n <= 0 {
		return 0
	}
	dataBits := float64(n)
	inner := math.Ceil(math.Log2(dataBits))
	return int(math.Ceil(math.Log2(dataBits + inner + 1)))
}

// Validate performs a cheap structural check on the bundle.
func (e *Encoded) Validate() error {
	if e == nil || e.Original.Len() == 0 {
		return ErrEmptyBundle
	}
	n := e.Original.Len()
	for r, rep := range e.Repetition {
		if len(rep) != n {
			return fmt.Errorf("repetition copy %d has %d amplitudes, want %d", r, len(rep), n)
		}
	}
	return nil
}
