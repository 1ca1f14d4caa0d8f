package qec

import (
	"math/cmplx"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/parthchhabraa/quantumflow/qmath"
	"github.com/parthchhabraa/quantumflow/state"
)

const (
	// DefaultErrorThreshold is the detector's per-amplitude tolerance.
	DefaultErrorThreshold = 0.05

	// DefaultMaxAttempts bounds the correction loop.
	DefaultMaxAttempts = 3

	// fallbackFidelityFloor gates the wholesale-replacement fallback.
	fallbackFidelityFloor = 0.5
)

// CorrectorOptions configures a Corrector.
type CorrectorOptions struct {
	ErrorThreshold float64
	MaxAttempts    int
	Detector       Detector
}

// CorrectionResult is the outcome of a correction session. A failed
// session is a result, not an error: Success is false and the
// diagnostics describe what was attempted.
type CorrectionResult struct {
	State            state.Vector
	Success          bool
	Attempts         int
	TotalDetected    int
	TotalCorrected   int
	FallbacksUsed    int
	CorruptedIndices *roaring.Bitmap
	FinalFidelity    float64
}

// Corrector runs the multi-attempt correction state machine over
// encoded bundles. Terminal states are success and
// exhausted-unresolved.
type Corrector struct {
	errorThreshold float64
	maxAttempts    int
	detector       Detector
}

// NewCorrector creates a Corrector. optFns mutate the defaults.
func NewCorrector(optFns ...func(*CorrectorOptions)) *Corrector {
	opts := CorrectorOptions{
		ErrorThreshold: DefaultErrorThreshold,
		MaxAttempts:    DefaultMaxAttempts,
		Detector:       DefaultDetector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.ErrorThreshold <= 0 {
		opts.ErrorThreshold = DefaultErrorThreshold
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Detector == nil {
		opts.Detector = DefaultDetector{}
	}

	return &Corrector{
		errorThreshold: opts.ErrorThreshold,
		maxAttempts:    opts.MaxAttempts,
		detector:       opts.Detector,
	}
}

// Decode runs correction attempts against the bundle until the
// detector reports a clean state or attempts are exhausted. Corrections
// are pure: each attempt builds a new vector, the candidate is never
// mutated. An uncorrupted candidate succeeds on the first attempt with
// zero detected errors.
func (c *Corrector) Decode(enc *Encoded, candidate state.Vector) (CorrectionResult, error) {
	if err := enc.Validate(); err != nil {
		return CorrectionResult{}, err
	}

	result := CorrectionResult{
		State:            candidate.Clone(),
		CorruptedIndices: roaring.New(),
	}
	current := result.State

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		result.Attempts = attempt

		report := c.detector.Detect(enc.Original, current, c.errorThreshold)
		result.TotalDetected += report.ErrorCount()
		if !report.Corrupted {
			result.State = current
			result.Success = true
			result.FinalFidelity = report.Fidelity
			return result, nil
		}

		corrected := c.applyCorrections(enc, current, report.Errors, &result)

		reverify := c.detector.Detect(enc.Original, corrected, c.errorThreshold)
		if !reverify.Corrupted {
			result.State = corrected
			result.Success = true
			result.FinalFidelity = reverify.Fidelity
			return result, nil
		}

		current = c.fallback(enc, corrected)
		result.FallbacksUsed++
	}

	result.State = current
	result.FinalFidelity = Fidelity(enc.Original, current)
	return result, nil
}

// applyCorrections dispatches every reported error to its strategy and
// returns a fresh, renormalized vector.
func (c *Corrector) applyCorrections(enc *Encoded, current state.Vector, errs []AmplitudeError, result *CorrectionResult) state.Vector {
	amps := current.Amplitudes()
	entanglementID := current.EntanglementID()
	n := len(amps)

	for _, e := range errs {
		switch e.Kind {
		case KindAmplitude:
			if e.Index < 0 || e.Index >= n {
				continue
			}
			amps[e.Index] = majorityVote(
				enc.Repetition[0][e.Index],
				enc.Repetition[1][e.Index],
				enc.Repetition[2][e.Index],
			)
			result.CorruptedIndices.Add(uint32(e.Index))
			result.TotalCorrected++
		case KindPhase:
			if e.Index < 0 || e.Index >= n || e.Index >= enc.Original.Len() {
				continue
			}
			// Keep the current magnitude, restore the original phase.
			amps[e.Index] = qmath.FromPolar(
				cmplx.Abs(amps[e.Index]),
				cmplx.Phase(enc.Original.At(e.Index)),
			)
			result.CorruptedIndices.Add(uint32(e.Index))
			result.TotalCorrected++
		case KindNormalization:
			// state.New renormalizes below; count the repair.
			result.TotalCorrected++
		case KindEntanglement:
			entanglementID = enc.Original.EntanglementID()
			result.TotalCorrected++
		}
	}

	rebuilt, err := state.New(amps, current.Phase())
	if err != nil {
		// All probability mass destroyed: only the original survives.
		return enc.Original.Clone()
	}
	return rebuilt.WithEntanglementID(entanglementID)
}

// fallback repairs a still-corrupted vector: wholesale replacement with
// the original clone when fidelity collapsed below the floor, otherwise
// a per-index weighted average of the repetition-code amplitudes, each
// weighted by its own magnitude.
func (c *Corrector) fallback(enc *Encoded, current state.Vector) state.Vector {
	if Fidelity(enc.Original, current) < fallbackFidelityFloor {
		return enc.Original.Clone()
	}

	n := enc.Original.Len()
	amps := make([]complex128, n)
	for i := 0; i < n; i++ {
		var weighted complex128
		totalWeight := 0.0
		for r := 0; r < 3; r++ {
			a := enc.Repetition[r][i]
			w := cmplx.Abs(a)
			weighted += a * complex(w, 0)
			totalWeight += w
		}
		if totalWeight > 0 {
			amps[i] = weighted / complex(totalWeight, 0)
		}
	}

	rebuilt, err := state.New(amps, current.Phase())
	if err != nil {
		return enc.Original.Clone()
	}
	return rebuilt.WithEntanglementID(enc.Original.EntanglementID())
}

// majorityVote returns the repetition-code amplitude whose magnitude is
// closest to the median magnitude of the three; ties keep the first
// minimal-distance element by input order.
func majorityVote(a, b, c complex128) complex128 {
	candidates := [3]complex128{a, b, c}
	mags := [3]float64{cmplx.Abs(a), cmplx.Abs(b), cmplx.Abs(c)}

	sorted := []float64{mags[0], mags[1], mags[2]}
	sort.Float64s(sorted)
	median := sorted[1]

	best := 0
	bestDist := distance(mags[0], median)
	for i := 1; i < 3; i++ {
		if d := distance(mags[i], median); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return candidates[best]
}

func distance(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
