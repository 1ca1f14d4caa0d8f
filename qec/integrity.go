package qec

import (
	"math"
	"math/cmplx"

	"github.com/parthchhabraa/quantumflow/qmath"
	"github.com/parthchhabraa/quantumflow/state"
)

const (
	// intactScore is the integrity score at or above which a vector is
	// considered intact.
	intactScore = 0.8

	// phaseCoherenceFloor is the minimum phase-coherence score.
	phaseCoherenceFloor = 0.5

	// referenceFidelityFloor is the minimum fidelity against a
	// reference vector.
	referenceFidelityFloor = 0.9
)

// IntegrityCheck is one named pass/fail verdict.
type IntegrityCheck struct {
	Name   string
	Passed bool
	Value  float64
}

// IntegrityReport is the result of VerifyIntegrity.
type IntegrityReport struct {
	Checks         []IntegrityCheck
	IntegrityScore float64
	Intact         bool
	Recommendation string
}

// VerifyIntegrity runs independent structural checks over v:
// normalization error under the corrector's threshold, amplitude
// finiteness, phase coherence, and - when applicable - entanglement-tag
// presence and fidelity against a reference. The integrity score is the
// passed-check ratio; v is intact at 0.8 or above.
func (c *Corrector) VerifyIntegrity(v state.Vector, reference *state.Vector) IntegrityReport {
	var checks []IntegrityCheck

	normErr := math.Abs(v.TotalProbability() - 1)
	checks = append(checks, IntegrityCheck{
		Name:   "normalization",
		Passed: normErr < c.errorThreshold,
		Value:  normErr,
	})

	finite := true
	for i := 0; i < v.Len(); i++ {
		if !amplitudeFinite(v.At(i)) {
			finite = false
			break
		}
	}
	checks = append(checks, IntegrityCheck{Name: "amplitude-finiteness", Passed: finite})

	coherence := math.Exp(-qmath.PhaseVariance(v.Amplitudes()) / (math.Pi * math.Pi))
	checks = append(checks, IntegrityCheck{
		Name:   "phase-coherence",
		Passed: coherence > phaseCoherenceFloor,
		Value:  coherence,
	})

	if reference != nil {
		if reference.EntanglementID() != "" {
			checks = append(checks, IntegrityCheck{
				Name:   "entanglement-tag",
				Passed: v.EntanglementID() == reference.EntanglementID(),
			})
		}
		fidelity := Fidelity(*reference, v)
		checks = append(checks, IntegrityCheck{
			Name:   "reference-fidelity",
			Passed: fidelity > referenceFidelityFloor,
			Value:  fidelity,
		})
	}

	passed := 0
	for _, check := range checks {
		if check.Passed {
			passed++
		}
	}
	score := float64(passed) / float64(len(checks))

	return IntegrityReport{
		Checks:         checks,
		IntegrityScore: score,
		Intact:         score >= intactScore,
		Recommendation: recommendation(score),
	}
}

func recommendation(score float64) string {
	switch {
	case score >= 0.9:
		return "state is healthy; no action required"
	case score >= 0.7:
		return "minor degradation; re-verify after the next correction pass"
	case score >= 0.5:
		return "significant degradation; run error correction before further use"
	default:
		return "state unusable; restore from the original or degrade to classical compression"
	}
}

// PhaseCoherence exposes the phase-coherence score used by the
// integrity check: exp(-variance/pi^2) over the amplitude phases.
func PhaseCoherence(v state.Vector) float64 {
	return math.Exp(-qmath.PhaseVariance(v.Amplitudes()) / (math.Pi * math.Pi))
}

// amplitudeFinite reports whether a is a usable amplitude.
func amplitudeFinite(a complex128) bool {
	return !cmplx.IsNaN(a) && !cmplx.IsInf(a)
}
