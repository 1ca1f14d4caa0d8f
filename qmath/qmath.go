// Package qmath provides the numeric primitives shared by the
// quantum-inspired compression layers: byte entropy, amplitude
// normalization, and the correlation measures used for entanglement
// scoring.
package qmath

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrZeroMagnitude is returned when a normalization target carries no
// probability mass at all.
var ErrZeroMagnitude = errors.New("cannot normalize zero-magnitude amplitudes")

const (
	// probTolerance is the accepted deviation of total probability from 1.
	probTolerance = 1e-10

	// varianceEpsilon guards correlation against constant inputs.
	varianceEpsilon = 1e-12
)

// Entropy returns the Shannon entropy of data in bits per byte (0..8).
// Empty input has zero entropy.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	n := float64(len(data))
	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// NormalizedEntropy returns the Shannon entropy of data scaled to [0, 1].
func NormalizedEntropy(data []byte) float64 {
	return Entropy(data) / 8.0
}

// FromPolar builds a complex amplitude from magnitude and phase.
func FromPolar(magnitude, phase float64) complex128 {
	return cmplx.Rect(magnitude, phase)
}

// Magnitudes extracts |a_i| for every amplitude.
func Magnitudes(amps []complex128) []float64 {
	out := make([]float64, len(amps))
	for i, a := range amps {
		out[i] = cmplx.Abs(a)
	}
	return out
}

// TotalProbability returns the total probability mass sum(|a_i|^2).
func TotalProbability(amps []complex128) float64 {
	total := 0.0
	for _, a := range amps {
		m := cmplx.Abs(a)
		total += m * m
	}
	return total
}

// Normalized reports whether amplitudes already carry unit probability.
func Normalized(amps []complex128) bool {
	return math.Abs(TotalProbability(amps)-1) <= probTolerance
}

// Normalize returns a copy of amps rescaled to unit total probability.
// Returns ErrZeroMagnitude if the total probability is zero.
func Normalize(amps []complex128) ([]complex128, error) {
	total := TotalProbability(amps)
	if total == 0 {
		return nil, ErrZeroMagnitude
	}

	inv := complex(1/math.Sqrt(total), 0)
	out := make([]complex128, len(amps))
	for i, a := range amps {
		out[i] = a * inv
	}
	return out, nil
}

// Probabilities converts amplitudes into a normalized probability
// distribution. Returns ErrZeroMagnitude if all amplitudes are zero.
func Probabilities(amps []complex128) ([]float64, error) {
	total := TotalProbability(amps)
	if total == 0 {
		return nil, ErrZeroMagnitude
	}

	out := make([]float64, len(amps))
	for i, a := range amps {
		m := cmplx.Abs(a)
		out[i] = m * m / total
	}
	return out, nil
}

// Mean returns the arithmetic mean of data.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Variance returns the sample variance of data.
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// Pearson returns the Pearson correlation coefficient of x and y over
// their overlapping range. Constant inputs are handled explicitly:
// two identical constant series correlate perfectly, a single constant
// series does not correlate at all.
func Pearson(x, y []float64) float64 {
	n := min(len(x), len(y))
	if n == 0 {
		return 0
	}
	x, y = x[:n], y[:n]

	vx, vy := Variance(x), Variance(y)
	if vx < varianceEpsilon || vy < varianceEpsilon {
		if seriesEqual(x, y) {
			return 1
		}
		return 0
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// Spearman returns the Spearman rank correlation of x and y.
// Ties are broken by stable sort order rather than averaged ranks.
func Spearman(x, y []float64) float64 {
	n := min(len(x), len(y))
	if n == 0 {
		return 0
	}
	return Pearson(Ranks(x[:n]), Ranks(y[:n]))
}

// Ranks maps each value to its rank in the stable ascending sort of data.
func Ranks(data []float64) []float64 {
	idx := make([]int, len(data))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return data[idx[a]] < data[idx[b]]
	})

	ranks := make([]float64, len(data))
	for rank, i := range idx {
		ranks[i] = float64(rank)
	}
	return ranks
}

// MutualInformation estimates the mutual information between x and y in
// bits, using a fixed-width histogram with the given number of bins.
func MutualInformation(x, y []float64, bins int) float64 {
	n := min(len(x), len(y))
	if n == 0 || bins < 2 {
		return 0
	}
	x, y = x[:n], y[:n]

	bx := discretize(x, bins)
	by := discretize(y, bins)

	joint := make(map[[2]int]float64, n)
	px := make([]float64, bins)
	py := make([]float64, bins)
	for i := 0; i < n; i++ {
		joint[[2]int{bx[i], by[i]}]++
		px[bx[i]]++
		py[by[i]]++
	}

	total := float64(n)
	mi := 0.0
	for key, c := range joint {
		pxy := c / total
		pxi := px[key[0]] / total
		pyi := py[key[1]] / total
		mi += pxy * math.Log2(pxy/(pxi*pyi))
	}
	if mi < 0 {
		return 0
	}
	return mi
}

// NormalizedMutualInformation scales MutualInformation to [0, 1] by the
// maximum attainable entropy of the binning.
func NormalizedMutualInformation(x, y []float64, bins int) float64 {
	if bins < 2 {
		return 0
	}
	return Clamp01(MutualInformation(x, y, bins) / math.Log2(float64(bins)))
}

// PhaseVariance returns the variance of the amplitude phases.
func PhaseVariance(amps []complex128) float64 {
	phases := make([]float64, len(amps))
	for i, a := range amps {
		phases[i] = cmplx.Phase(a)
	}
	return Variance(phases)
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ApproxEqual compares two amplitudes componentwise within tol.
func ApproxEqual(a, b complex128, tol float64) bool {
	return math.Abs(real(a)-real(b)) <= tol && math.Abs(imag(a)-imag(b)) <= tol
}

func discretize(data []float64, bins int) []int {
	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	out := make([]int, len(data))
	if hi == lo {
		return out
	}
	scale := float64(bins) / (hi - lo)
	for i, v := range data {
		b := int((v - lo) * scale)
		if b >= bins {
			b = bins - 1
		}
		out[i] = b
	}
	return out
}

func seriesEqual(x, y []float64) bool {
	for i := range x {
		if math.Abs(x[i]-y[i]) > varianceEpsilon {
			return false
		}
	}
	return true
}
