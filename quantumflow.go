package quantumflow

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/parthchhabraa/quantumflow/checksum"
	"github.com/parthchhabraa/quantumflow/classical"
	"github.com/parthchhabraa/quantumflow/entanglement"
	"github.com/parthchhabraa/quantumflow/interference"
	"github.com/parthchhabraa/quantumflow/qec"
	"github.com/parthchhabraa/quantumflow/qmath"
	"github.com/parthchhabraa/quantumflow/state"
	"github.com/parthchhabraa/quantumflow/superposition"
)

// analysisSegments caps how many state vectors one compression builds;
// correlation mining is quadratic in this count.
const analysisSegments = 32

// Result carries the output of one compression.
type Result struct {
	// Data is the complete frame, ready for Decompress.
	Data []byte

	// Strategy names the classical strategy the payload traveled
	// through.
	Strategy string

	// Degraded is true when analysis failed and the graceful-degradation
	// path produced the frame.
	Degraded bool

	OriginalSize   int
	CompressedSize int
	Ratio          float64

	// Checksum fingerprints the original data.
	Checksum checksum.Quantum

	// Analysis summarizes the amplitude-domain pass. Nil when the frame
	// was produced without analysis.
	Analysis *AnalysisStats

	// ArchivedAs is the archive store key, if an archive is configured.
	ArchivedAs string

	Duration time.Duration
}

// AnalysisStats summarizes the amplitude-domain analysis that drove
// strategy selection.
type AnalysisStats struct {
	States                   int
	EntangledPairs           int
	AverageEntropy           float64
	ProbabilityConcentration float64
	PatternComplexity        float64
	DominantPatterns         int
	OptimizationRounds       int
	Converged                bool
	Coherence                float64
}

// Engine is the compression facade. It owns the superposition
// processor, the entanglement analyzer, the interference optimizer and
// the error-correction layer, and routes payload bytes through a
// reversible classical strategy chosen by amplitude-domain analysis.
//
// Safe for concurrent use. Close releases the worker pool; operations
// on a closed engine return ErrClosed.
type Engine struct {
	config    Config
	processor *superposition.Processor
	analyzer  *entanglement.Analyzer
	optimizer *interference.Optimizer
	corrector *qec.Corrector
	degrader  *qec.Degrader
	opts      Options

	closed atomic.Bool
}

// New creates an Engine from cfg. optFns attach runtime collaborators.
func New(cfg Config, optFns ...func(*Options)) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := Options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = NoopMetricsCollector{}
	}

	processor, err := superposition.NewProcessor(func(o *superposition.ProcessorOptions) {
		o.MaxSuperpositionSize = cfg.maxGroupSize()
		o.Workers = opts.Workers
	})
	if err != nil {
		return nil, fmt.Errorf("superposition processor: %w", err)
	}

	// The analyzer's acceptance floor is the pair-construction minimum.
	pairThreshold := max(cfg.InterferenceThreshold, entanglement.MinCorrelationStrength)
	analyzer, err := entanglement.NewAnalyzer(func(o *entanglement.AnalyzerOptions) {
		o.MinCorrelationThreshold = pairThreshold
		o.MaxPairs = cfg.maxPairs()
		if opts.Workers > 0 {
			o.Workers = opts.Workers
		}
		o.Governor = opts.Governor
	})
	if err != nil {
		processor.Close()
		return nil, fmt.Errorf("entanglement analyzer: %w", err)
	}

	optimizer, err := interference.NewOptimizer(cfg.profile())
	if err != nil {
		processor.Close()
		return nil, fmt.Errorf("interference optimizer: %w", err)
	}

	return &Engine{
		config:    cfg,
		processor: processor,
		analyzer:  analyzer,
		optimizer: optimizer,
		corrector: qec.NewCorrector(),
		degrader:  qec.NewDegrader(),
		opts:      opts,
	}, nil
}

// Close releases the engine's worker pool. Idempotent.
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	e.processor.Close()
	return nil
}

// Compress encodes data into a self-describing frame.
//
// The amplitude-domain analysis (superposition patterns, entangled
// pairs, interference optimization) drives strategy selection; the
// payload itself travels through the selected reversible classical
// strategy, so Decompress restores data exactly. When analysis fails
// for any reason other than context cancellation, the engine degrades
// to a classical pass and marks the frame accordingly.
func (e *Engine) Compress(ctx context.Context, data []byte) (*Result, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	start := time.Now()

	if err := e.opts.Governor.AcquireAnalysis(ctx); err != nil {
		return nil, err
	}
	defer e.opts.Governor.ReleaseAnalysis()

	result, err := e.compress(ctx, data)

	duration := time.Since(start)
	if result != nil {
		result.Duration = duration
	}
	compressedSize := 0
	strategy := ""
	if result != nil {
		compressedSize = result.CompressedSize
		strategy = result.Strategy
	}
	e.opts.Metrics.RecordCompress(len(data), compressedSize, duration, err)
	e.opts.Logger.LogCompress(ctx, len(data), compressedSize, strategy, err)
	if err != nil {
		return nil, translateError(err)
	}

	if e.opts.Archive != nil {
		name := result.Checksum.Hash
		putErr := e.opts.Archive.Put(ctx, name, result.Data)
		e.opts.Logger.LogArchive(ctx, name, len(result.Data), putErr)
		if putErr == nil {
			result.ArchivedAs = name
		}
	}

	return result, nil
}

func (e *Engine) compress(ctx context.Context, data []byte) (*Result, error) {
	stats, analysisErr := e.analyze(ctx, data)
	if analysisErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return e.degrade(ctx, data, analysisErr.Error())
	}

	strategy := classical.SelectStrategy("", len(data), stats.AverageEntropy)
	cres, err := classical.Compress(strategy, data)
	if err != nil {
		return e.degrade(ctx, data, err.Error())
	}

	f := frame{
		strategy:     strategy,
		originalSize: len(data),
		payload:      cres.Data,
	}
	encoded := encodeFrame(f)

	return &Result{
		Data:           encoded,
		Strategy:       strategy.String(),
		OriginalSize:   len(data),
		CompressedSize: len(encoded),
		Ratio:          float64(len(data)) / float64(len(encoded)),
		Checksum:       checksum.Generate(data),
		Analysis:       stats,
	}, nil
}

// degrade routes data through the classical fallback and frames the
// outcome.
func (e *Engine) degrade(ctx context.Context, data []byte, reason string) (*Result, error) {
	dres := e.degrader.Degrade(ctx, data, reason)

	f := frame{
		strategy:     dres.Strategy,
		flags:        flagDegraded,
		originalSize: len(data),
		payload:      dres.CompressedData,
	}
	strategyName := dres.Strategy.String()
	if dres.Stored {
		f.flags |= flagStored
		strategyName = "stored"
	}
	encoded := encodeFrame(f)

	e.opts.Logger.LogDegradation(ctx, reason, strategyName, dres.CompressionRatio)
	e.opts.Metrics.RecordDegradation(strategyName, dres.CompressionRatio, dres.Metrics.Duration)

	return &Result{
		Data:           encoded,
		Strategy:       strategyName,
		Degraded:       true,
		OriginalSize:   len(data),
		CompressedSize: len(encoded),
		Ratio:          float64(len(data)) / float64(len(encoded)),
		Checksum:       checksum.Generate(data),
	}, nil
}

// Decompress restores the original bytes from a frame produced by
// Compress.
func (e *Engine) Decompress(ctx context.Context, data []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	start := time.Now()
	restored, err := e.decompress(ctx, data)
	duration := time.Since(start)

	e.opts.Metrics.RecordDecompress(len(data), duration, err)
	e.opts.Logger.LogDecompress(ctx, len(data), len(restored), err)
	return restored, translateError(err)
}

func (e *Engine) decompress(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := decodeFrame(data)
	if err != nil {
		return nil, err
	}

	var restored []byte
	if f.flags&flagStored != 0 {
		restored = append([]byte(nil), f.payload...)
	} else {
		restored, err = classical.Decompress(f.strategy, f.payload)
		if err != nil {
			return nil, err
		}
	}

	if len(restored) != f.originalSize {
		return nil, fmt.Errorf("%w: restored %d bytes, frame declares %d",
			ErrInvalidFrame, len(restored), f.originalSize)
	}
	return restored, nil
}

// Verify checks a frame's structural integrity and its payload's
// restorability without returning the payload.
func (e *Engine) Verify(ctx context.Context, data []byte) error {
	_, err := e.Decompress(ctx, data)
	return err
}

// analyze runs the amplitude-domain pipeline over data and summarizes
// it for strategy selection.
func (e *Engine) analyze(ctx context.Context, data []byte) (*AnalysisStats, error) {
	states, err := e.buildStates(data)
	if err != nil {
		return nil, err
	}

	chars := e.optimizer.Analyze(states)

	pairs, err := e.analyzer.FindPairs(ctx, states)
	if err != nil {
		return nil, err
	}

	weights := make([]float64, len(states))
	for i := range weights {
		weights[i] = 1
	}
	sup, err := e.processor.Create(states, weights)
	if err != nil {
		return nil, err
	}

	opt, err := e.optimizer.OptimizeIteratively(ctx, sup)
	if err != nil {
		return nil, err
	}

	patterns := opt.Final.AnalyzeAmplitudes(superposition.DefaultPatternThreshold)
	dominant := superposition.AggregateDominantPatterns(
		[][]superposition.Pattern{patterns}, superposition.DefaultDominanceThreshold)

	return &AnalysisStats{
		States:                   len(states),
		EntangledPairs:           len(pairs),
		AverageEntropy:           chars.AverageEntropy,
		ProbabilityConcentration: chars.ProbabilityConcentration,
		PatternComplexity:        chars.PatternComplexity,
		DominantPatterns:         len(dominant),
		OptimizationRounds:       opt.Iterations,
		Converged:                opt.Converged,
		Coherence:                opt.Final.Coherence(),
	}, nil
}

// buildStates segments data and maps each segment onto an amplitude
// vector. Segment count is capped; the segment width grows with the
// input instead.
func (e *Engine) buildStates(data []byte) ([]state.Vector, error) {
	chunkSize := e.config.chunkSize()

	segment := chunkSize * 4
	if needed := (len(data) + analysisSegments - 1) / analysisSegments; segment < needed {
		segment = needed
	}

	var states []state.Vector
	for off := 0; off < len(data); off += segment {
		end := min(off+segment, len(data))
		v, err := state.FromBytes(data[off:end], chunkSize)
		if err != nil {
			return nil, err
		}
		states = append(states, v)
	}
	if len(states) == 0 {
		return nil, ErrEmptyInput
	}
	return states, nil
}

// Protect wraps a state vector in the redundancy encoding used by the
// error-correction layer.
func (e *Engine) Protect(v state.Vector) (*qec.Encoded, error) {
	return qec.Encode(v)
}

// Recover runs detection and correction of a possibly corrupted vector
// against its redundancy encoding, reporting the session to metrics.
func (e *Engine) Recover(ctx context.Context, enc *qec.Encoded, candidate state.Vector) (qec.CorrectionResult, error) {
	res, err := e.corrector.Decode(enc, candidate)
	if err == nil {
		e.opts.Metrics.RecordCorrection(res.Attempts, res.TotalDetected, res.TotalCorrected, res.Success)
		e.opts.Logger.LogCorrection(ctx, res.Attempts, res.TotalDetected, res.TotalCorrected, res.Success)
	}
	return res, err
}

// NormalizedEntropy reports the Shannon entropy of data scaled to
// [0, 1]. Exposed for callers doing their own strategy planning.
func NormalizedEntropy(data []byte) float64 {
	return qmath.NormalizedEntropy(data)
}
