// Package statprim provides the pure, allocation-free statistical
// primitives §4.1 builds everything else on: normal CDF/inverse-CDF,
// raw→STEN conversion, and STEN→percentile.
//
// The normal distribution math is delegated to gonum's distuv.Normal,
// the same wrapping style the rest of the corpus uses for distributional
// computations (see internal/scoring's descriptive-stats helpers), rather
// than a hand-rolled Abramowitz-Stegun/rational approximation: gonum's
// math.Erf-backed CDF and Newton-refined Quantile both clear the spec's
// error bounds with room to spare, and pulling in a second, bespoke
// numerical path for the same distribution would be the one un-grounded
// addition in this package.
package statprim

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// NormalCDF returns Φ(x), the standard normal cumulative distribution.
func NormalCDF(x float64) float64 {
	return standardNormal.CDF(x)
}

// NormalInverse returns Φ⁻¹(p), the standard normal quantile function, for
// p ∈ (0,1). Callers must handle p=0/p=1 themselves (see RawToSten).
func NormalInverse(p float64) float64 {
	return standardNormal.Quantile(p)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RawToSten converts a raw score over [rawMin,rawMax] into a STEN (1..10):
// clamp raw into range, compute the proportion, map proportion=0/1 to the
// STEN floor/ceiling directly (avoiding Φ⁻¹(0)=-∞), otherwise invert through
// the standard normal and rescale to the STEN mean/SD (5.5, 2).
func RawToSten(raw, rawMin, rawMax float64) int {
	if rawMax <= rawMin {
		// Degenerate range: nothing to discriminate on; return the midpoint.
		return 6
	}
	raw = clamp(raw, rawMin, rawMax)
	proportion := (raw - rawMin) / (rawMax - rawMin)
	if proportion <= 0 {
		return 1
	}
	if proportion >= 1 {
		return 10
	}
	z := NormalInverse(proportion)
	sten := int(math.Round(5.5 + 2*z))
	return clampInt(sten, 1, 10)
}

// LikertSumToSten sums a set of 1..5 Likert responses and converts the sum
// via RawToSten using bounds [n*1, n*5].
func LikertSumToSten(responses []int) int {
	n := len(responses)
	if n == 0 {
		return 1
	}
	sum := 0
	for _, r := range responses {
		sum += r
	}
	return RawToSten(float64(sum), float64(n), float64(5*n))
}

// StenToPercentile approximates a STEN's population percentile with a
// logistic curve centered on the STEN mean (5.5) and scaled so the
// STEN-to-theta relationship (§4.2 θ→STEN) and this percentile agree in
// the middle of the range.
func StenToPercentile(sten int) float64 {
	x := float64(sten)
	p := 100.0 / (1.0 + math.Exp(-1.7*(x-5.5)/2.0))
	return math.Round(p)
}
