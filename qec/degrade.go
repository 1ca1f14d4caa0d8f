package qec

import (
	"bytes"
	"context"
	"time"

	"github.com/parthchhabraa/quantumflow/classical"
	"github.com/parthchhabraa/quantumflow/qmath"
)

// DegradationMetrics carries the timing and size bookkeeping of one
// degradation pass.
type DegradationMetrics struct {
	Duration       time.Duration
	OriginalSize   int
	CompressedSize int
	Entropy        float64
}

// DegradationResult is the outcome of graceful degradation. Internal
// failures degrade further to returning the original data unchanged
// with a ratio of 1; they never surface as errors.
type DegradationResult struct {
	Success           bool
	Strategy          classical.Strategy
	Stored            bool // true when the data was returned uncompressed
	CompressedData    []byte
	CompressionRatio  float64
	Metrics           DegradationMetrics
	IntegrityVerified bool
}

// Degrader selects and runs a classical fallback strategy when the
// quantum-inspired path is unusable.
type Degrader struct{}

// NewDegrader creates a Degrader.
func NewDegrader() *Degrader { return &Degrader{} }

// Degrade compresses data classically. The strategy is selected from
// the failure-reason keywords and the payload's size and entropy; the
// result is integrity-verified by decompressing and comparing before
// it is returned.
func (d *Degrader) Degrade(ctx context.Context, data []byte, failureReason string) DegradationResult {
	start := time.Now()
	entropy := qmath.NormalizedEntropy(data)

	metrics := DegradationMetrics{
		OriginalSize: len(data),
		Entropy:      entropy,
	}

	stored := func() DegradationResult {
		metrics.CompressedSize = len(data)
		metrics.Duration = time.Since(start)
		return DegradationResult{
			Success:           true,
			Stored:            true,
			CompressedData:    append([]byte(nil), data...),
			CompressionRatio:  1,
			Metrics:           metrics,
			IntegrityVerified: true,
		}
	}

	if len(data) == 0 || ctx.Err() != nil {
		return stored()
	}

	strategy := classical.SelectStrategy(failureReason, len(data), entropy)
	result, err := classical.Compress(strategy, data)
	if err != nil {
		return stored()
	}

	// Verify the round trip before trusting the payload.
	restored, err := classical.Decompress(strategy, result.Data)
	if err != nil || !bytes.Equal(restored, data) {
		return stored()
	}

	metrics.CompressedSize = len(result.Data)
	metrics.Duration = time.Since(start)
	return DegradationResult{
		Success:           true,
		Strategy:          strategy,
		CompressedData:    result.Data,
		CompressionRatio:  result.Ratio,
		Metrics:           metrics,
		IntegrityVerified: true,
	}
}
