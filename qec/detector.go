package qec

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/parthchhabraa/quantumflow/state"
)

// ErrorKind tags one detected error with its correction strategy.
type ErrorKind int

const (
	KindAmplitude ErrorKind = iota
	KindPhase
	KindNormalization
	KindEntanglement
)

func (k ErrorKind) String() string {
	switch k {
	case KindAmplitude:
		return "amplitude"
	case KindPhase:
		return "phase"
	case KindNormalization:
		return "normalization"
	case KindEntanglement:
		return "entanglement"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// AmplitudeError locates one detected error.
// Index is -1 for whole-vector error kinds.
type AmplitudeError struct {
	Kind  ErrorKind
	Index int
}

// Report is the decoherence detector's verdict on a candidate vector.
type Report struct {
	Corrupted bool
	Errors    []AmplitudeError
	Fidelity  float64
}

// ErrorCount returns the number of reported errors.
func (r Report) ErrorCount() int { return len(r.Errors) }

// Detector compares a candidate vector against its reference and
// reports decoherence errors. The engine ships DefaultDetector;
// callers may substitute their own implementation.
type Detector interface {
	Detect(reference, candidate state.Vector, threshold float64) Report
}

// DefaultDetector classifies per-index amplitude and phase drift plus
// whole-vector normalization and entanglement-tag damage.
type DefaultDetector struct{}

// Detect implements Detector.
func (DefaultDetector) Detect(reference, candidate state.Vector, threshold float64) Report {
	var errs []AmplitudeError

	n := min(reference.Len(), candidate.Len())
	for i := 0; i < n; i++ {
		ref, cand := reference.At(i), candidate.At(i)

		magDelta := math.Abs(cmplx.Abs(ref) - cmplx.Abs(cand))
		if magDelta > threshold {
			errs = append(errs, AmplitudeError{Kind: KindAmplitude, Index: i})
			continue
		}

		phaseDelta := math.Abs(phaseDistance(cmplx.Phase(ref), cmplx.Phase(cand)))
		if phaseDelta > threshold*math.Pi {
			errs = append(errs, AmplitudeError{Kind: KindPhase, Index: i})
		}
	}

	if math.Abs(candidate.TotalProbability()-1) > threshold {
		errs = append(errs, AmplitudeError{Kind: KindNormalization, Index: -1})
	}
	if reference.EntanglementID() != candidate.EntanglementID() {
		errs = append(errs, AmplitudeError{Kind: KindEntanglement, Index: -1})
	}

	return Report{
		Corrupted: len(errs) > 0,
		Errors:    errs,
		Fidelity:  Fidelity(reference, candidate),
	}
}

// Fidelity is the simplified inner-product fidelity of two vectors:
// sum(|conj(a_i)*b_i|) over the overlapping range divided by the
// overlap length, capped at 1. Not a true quantum fidelity.
func Fidelity(a, b state.Vector) float64 {
	n := min(a.Len(), b.Len())
	if n == 0 {
		return 0
	}

	total := 0.0
	for i := 0; i < n; i++ {
		total += cmplx.Abs(cmplx.Conj(a.At(i)) * b.At(i))
	}

	fidelity := total / float64(n)
	if fidelity > 1 {
		return 1
	}
	return fidelity
}

// phaseDistance is the signed angular distance wrapped to [-pi, pi].
func phaseDistance(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
