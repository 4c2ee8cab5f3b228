// Package irt implements the §4.2 3-parameter-logistic item response
// model: probability of a correct response, item information, ability
// estimation (MLE and Bayesian MAP), next-item selection, and the CAT
// termination criterion.
package irt

import (
	"math"

	"assesscore/domain/item"
)

// Probability returns P(θ; a,b,c), the 3PL probability of a correct
// response at ability theta.
func Probability(theta float64, p item.IRTParams) float64 {
	exponent := -p.A * (theta - p.B)
	return p.C + (1-p.C)/(1+math.Exp(exponent))
}

// Information returns I(θ), the Fisher information the item carries at
// ability theta. Always non-negative.
func Information(theta float64, p item.IRTParams) float64 {
	e := math.Exp(p.A * (theta - p.B))
	numerator := p.A * p.A * (1 - p.C) * e
	denominator := (1 + e) * (1 + p.C*e)
	if denominator == 0 {
		return 0
	}
	info := numerator / denominator
	if info < 0 {
		return 0
	}
	return info
}

// ThetaToSten converts an ability estimate to a STEN via the §4.2
// clamp(round(5.5+2θ),1,10) mapping.
func ThetaToSten(theta float64) int {
	sten := int(math.Round(5.5 + 2*theta))
	if sten < 1 {
		return 1
	}
	if sten > 10 {
		return 10
	}
	return sten
}
