// Package resource bounds the engine's expensive analysis passes.
//
// Correlation-matrix construction is O(n^2) in the number of state
// vectors and iterative optimization has no natural cost ceiling below
// its round limit, so both consult a Governor: a semaphore bounds how
// many analyses run at once and an optional rate limiter meters how
// many matrix cells per second may be computed. Every wait honors the
// caller's context, giving the deadline/cancellation point the raw
// algorithms lack.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds analysis limits.
type Config struct {
	// MaxConcurrentAnalyses bounds simultaneous heavy passes.
	// If 0, defaults to 1.
	MaxConcurrentAnalyses int64

	// CellsPerSecond meters correlation-cell computations.
	// If 0, unlimited.
	CellsPerSecond int64
}

// Governor manages analysis concurrency and throughput.
// A nil *Governor is valid and enforces nothing.
type Governor struct {
	cfg Config

	analysisSem *semaphore.Weighted
	cellLimiter *rate.Limiter

	cellsComputed atomic.Int64
}

// NewGovernor creates a Governor from cfg.
func NewGovernor(cfg Config) *Governor {
	if cfg.MaxConcurrentAnalyses <= 0 {
		cfg.MaxConcurrentAnalyses = 1
	}

	g := &Governor{
		cfg:         cfg,
		analysisSem: semaphore.NewWeighted(cfg.MaxConcurrentAnalyses),
	}
	if cfg.CellsPerSecond > 0 {
		g.cellLimiter = rate.NewLimiter(rate.Limit(cfg.CellsPerSecond), int(cfg.CellsPerSecond))
	}
	return g
}

// AcquireAnalysis reserves an analysis slot, blocking until one is
// available or ctx is done.
func (g *Governor) AcquireAnalysis(ctx context.Context) error {
	if g == nil {
		return nil
	}
	return g.analysisSem.Acquire(ctx, 1)
}

// ReleaseAnalysis releases a slot taken by AcquireAnalysis.
func (g *Governor) ReleaseAnalysis() {
	if g == nil {
		return
	}
	g.analysisSem.Release(1)
}

// WaitCells blocks until n correlation cells may be computed under the
// configured rate, or ctx is done. n larger than the limiter burst is
// split into burst-sized waits.
func (g *Governor) WaitCells(ctx context.Context, n int) error {
	if g == nil || n <= 0 {
		return nil
	}
	defer g.cellsComputed.Add(int64(n))

	if g.cellLimiter == nil {
		// Still honor cancellation at every metering point.
		return ctx.Err()
	}

	burst := g.cellLimiter.Burst()
	for n > 0 {
		take := n
		if take > burst {
			take = burst
		}
		if err := g.cellLimiter.WaitN(ctx, take); err != nil {
			return err
		}
		n -= take
	}
	return nil
}

// CellsComputed returns the total metered cell count.
func (g *Governor) CellsComputed() int64 {
	if g == nil {
		return 0
	}
	return g.cellsComputed.Load()
}
