package irt

import (
	"math"

	"assesscore/domain/core"
	"assesscore/domain/item"
)

const (
	thetaMin = -4.0
	thetaMax = 4.0

	convergenceDelta = 1e-3
	minSecondDeriv   = 1e-10
	maxIterations    = 50

	// mapItemThreshold is the administered-item count below which MAP
	// (Bayesian, with a normal prior) is preferred over plain MLE (§4.2).
	mapItemThreshold = 5
)

// DivergedError reports that MLE saw an all-correct or all-incorrect
// response pattern and could not separate θ from ±∞. It wraps
// core.ErrEstimationDiverged and carries the sentinel θ the spec says the
// caller should substitute.
type DivergedError struct {
	Sentinel float64
}

func (e *DivergedError) Error() string {
	return "ability estimation diverged: degenerate response pattern"
}

func (e *DivergedError) Unwrap() error { return core.ErrEstimationDiverged }

// Prior is the normal prior used by the MAP variant.
type Prior struct {
	Mu    float64
	Sigma float64
}

// DefaultPrior is the standard normal prior (§4.2 default μ=0, σ²=1).
var DefaultPrior = Prior{Mu: 0, Sigma: 1}

// EstimateMLE estimates θ via maximum-likelihood Newton-Raphson, with no
// prior term. responses[i] is 1 for correct, 0 for incorrect, matched
// positionally against params[i]. Returns a *DivergedError (wrapping
// core.ErrEstimationDiverged) for all-correct/all-incorrect patterns.
func EstimateMLE(responses []int, params []item.IRTParams) (float64, error) {
	return estimate(responses, params, nil)
}

// EstimateMAP estimates θ via Newton-Raphson with a normal prior added to
// both derivatives, used when fewer than 5 items have been administered.
func EstimateMAP(responses []int, params []item.IRTParams, prior Prior) (float64, error) {
	return estimate(responses, params, &prior)
}

// Estimate dispatches to EstimateMAP when len(responses) < 5, else EstimateMLE,
// per the §4.2 "use MAP when administered item count <5" rule.
func Estimate(responses []int, params []item.IRTParams, prior Prior) (float64, error) {
	if len(responses) < mapItemThreshold {
		return EstimateMAP(responses, params, prior)
	}
	return EstimateMLE(responses, params)
}

// EstimateWithFallback runs Estimate and, on a degenerate pattern,
// substitutes the sentinel θ the DivergedError carries rather than
// propagating the error — the behavior §4.2/§7 calls "recoverable locally."
func EstimateWithFallback(responses []int, params []item.IRTParams, prior Prior) float64 {
	theta, err := Estimate(responses, params, prior)
	if err != nil {
		var diverged *DivergedError
		if ok := asDiverged(err, &diverged); ok {
			return diverged.Sentinel
		}
		return 0
	}
	return theta
}

func asDiverged(err error, target **DivergedError) bool {
	for err != nil {
		if d, ok := err.(*DivergedError); ok {
			*target = d
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func estimate(responses []int, params []item.IRTParams, prior *Prior) (float64, error) {
	if len(responses) == 0 || len(responses) != len(params) {
		return 0, core.NewInputInvalidError("irt.responses", "must be non-empty and match params length")
	}

	if allSame, correct := allResponsesSame(responses); allSame {
		if correct {
			return 0, &DivergedError{Sentinel: thetaMax}
		}
		return 0, &DivergedError{Sentinel: thetaMin}
	}

	theta := 0.0
	if prior != nil {
		theta = prior.Mu
	}

	for iter := 0; iter < maxIterations; iter++ {
		firstDeriv, secondDeriv := derivatives(theta, responses, params)
		if prior != nil {
			sigma2 := prior.Sigma * prior.Sigma
			firstDeriv += (theta - prior.Mu) / sigma2
			secondDeriv -= 1 / sigma2
		}

		if math.Abs(secondDeriv) < minSecondDeriv {
			break
		}

		delta := firstDeriv / secondDeriv
		theta -= delta
		theta = clampTheta(theta)

		if math.Abs(delta) < convergenceDelta {
			break
		}
	}

	return theta, nil
}

func clampTheta(theta float64) float64 {
	if theta < thetaMin {
		return thetaMin
	}
	if theta > thetaMax {
		return thetaMax
	}
	return theta
}

// derivatives computes the log-likelihood first and second derivatives at
// theta for the 3PL model:
//
//	f'(θ) = Σ (u_i - P_i) * a_i * (1-c_i) / (1-P_i)
//	f''(θ) = -Σ I_i(θ)
func derivatives(theta float64, responses []int, params []item.IRTParams) (float64, float64) {
	var firstDeriv, secondDeriv float64
	for i, p := range params {
		u := float64(responses[i])
		prob := Probability(theta, p)
		oneMinusP := 1 - prob
		if oneMinusP <= 0 {
			oneMinusP = 1e-12
		}
		firstDeriv += (u - prob) * p.A * (1 - p.C) / oneMinusP
		secondDeriv -= Information(theta, p)
	}
	return firstDeriv, secondDeriv
}

func allResponsesSame(responses []int) (same bool, allCorrect bool) {
	first := responses[0]
	for _, r := range responses {
		if r != first {
			return false, false
		}
	}
	return true, first == 1
}
