// Package classical implements the compression strategies the engine
// degrades to when the quantum-inspired path is unusable. Every
// strategy is reversible: Decompress(Compress(x)) == x.
package classical

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when compressing an empty buffer.
var ErrEmptyInput = errors.New("cannot compress empty input")

// ErrTruncatedPayload indicates a payload too short for its framing.
var ErrTruncatedPayload = errors.New("truncated classical payload")

// Strategy selects a classical compression path.
type Strategy int

const (
	// SimpleClassical is plain run-length encoding.
	SimpleClassical Strategy = iota
	// ChunkedClassical splits the input into 64KB chunks and
	// zstd-compresses each; used for large buffers and memory-pressure
	// failures.
	ChunkedClassical
	// HybridCompression run-length encodes a small analyzed head
	// (first ~10%, capped at 1KB) and zstd-compresses the remainder.
	HybridCompression
	// ClassicalWithMetadata prepends a JSON metadata header to an
	// lz4-compressed payload.
	ClassicalWithMetadata
	// FastClassical collapses only long duplicate runs in a single
	// pass; speed takes priority over ratio.
	FastClassical
)

func (s Strategy) String() string {
	switch s {
	case SimpleClassical:
		return "simple-classical"
	case ChunkedClassical:
		return "chunked-classical"
	case HybridCompression:
		return "hybrid-compression"
	case ClassicalWithMetadata:
		return "classical-with-quantum-metadata"
	case FastClassical:
		return "fast-classical"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// StrategyByName resolves a strategy from its stable name.
func StrategyByName(name string) (Strategy, bool) {
	for _, s := range []Strategy{
		SimpleClassical, ChunkedClassical, HybridCompression,
		ClassicalWithMetadata, FastClassical,
	} {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// Result carries a strategy's output and its ratio bookkeeping.
type Result struct {
	Strategy     Strategy
	Data         []byte
	OriginalSize int
	Ratio        float64
}

// Compress runs the selected strategy over data.
func Compress(strategy Strategy, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var (
		out []byte
		err error
	)
	switch strategy {
	case SimpleClassical:
		out = runLengthEncode(data)
	case ChunkedClassical:
		out, err = chunkedEncode(data)
	case HybridCompression:
		out, err = hybridEncode(data)
	case ClassicalWithMetadata:
		out, err = metadataEncode(data)
	case FastClassical:
		out = fastEncode(data)
	default:
		return nil, fmt.Errorf("unknown strategy %d", int(strategy))
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Strategy:     strategy,
		Data:         out,
		OriginalSize: len(data),
		Ratio:        float64(len(data)) / float64(len(out)),
	}, nil
}

// Decompress reverses Compress for the given strategy.
func Decompress(strategy Strategy, data []byte) ([]byte, error) {
	switch strategy {
	case SimpleClassical:
		return runLengthDecode(data)
	case ChunkedClassical:
		return chunkedDecode(data)
	case HybridCompression:
		return hybridDecode(data)
	case ClassicalWithMetadata:
		return metadataDecode(data)
	case FastClassical:
		return fastDecode(data)
	default:
		return nil, fmt.Errorf("unknown strategy %d", int(strategy))
	}
}

// SelectStrategy picks a degradation strategy from the failure reason
// keywords and the payload's size and normalized entropy.
func SelectStrategy(failureReason string, size int, entropy float64) Strategy {
	reason := strings.ToLower(failureReason)

	switch {
	case strings.Contains(reason, "speed"),
		strings.Contains(reason, "timeout"),
		strings.Contains(reason, "latency"):
		return FastClassical
	case strings.Contains(reason, "memory"),
		strings.Contains(reason, "resource"),
		size > 2<<20:
		return ChunkedClassical
	case strings.Contains(reason, "metadata"),
		strings.Contains(reason, "integrity"):
		return ClassicalWithMetadata
	case entropy < 0.5 && size > 4<<10:
		return HybridCompression
	default:
		return SimpleClassical
	}
}
