// Package scoring implements the §4.3 scale scorers: cognitive (IRT
// θ→STEN), behavioral (Likert sum + forced-choice integration), interest
// (ipsative→normative), and the learning-index composite. Each scorer is a
// pure function over responses and item metadata, returning a partially
// populated domain/score.ScaleScore (ScaleID/Raw/STEN/Percentile/Theta/
// ItemCount) — the caller stamps ID/AssessmentID/ComputedAt.
package scoring

import (
	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/domain/item"
	"assesscore/domain/score"
	"assesscore/internal/irt"
	"assesscore/internal/statprim"
)

// ScoreCognitive implements the cognitive scorer: filters responses to
// items in scaleID, builds the 0/1 correctness vector, estimates θ (MAP
// below five items, else MLE, with the degenerate-pattern sentinel
// substituted rather than propagated per §7), and emits
// {raw=count correct, STEN=thetaToSten(θ̂), percentile, θ, itemCount}.
func ScoreCognitive(scaleID core.ScaleID, itemsByID map[core.ItemID]item.Item, responses []assessment.Response, prior irt.Prior) (score.ScaleScore, error) {
	var correctness []int
	var params []item.IRTParams
	var raw float64

	for _, r := range responses {
		it, ok := itemsByID[r.ItemID]
		if !ok || it.ScaleID != scaleID {
			continue
		}
		u := 0
		if r.IsCorrect != nil && *r.IsCorrect {
			u = 1
			raw++
		}
		correctness = append(correctness, u)
		params = append(params, it.IRT)
	}

	if len(correctness) == 0 {
		return score.ScaleScore{ScaleID: scaleID}, nil
	}

	theta := irt.EstimateWithFallback(correctness, params, prior)
	sten := irt.ThetaToSten(theta)

	return score.ScaleScore{
		ScaleID:    scaleID,
		Raw:        raw,
		STEN:       sten,
		Percentile: statprim.StenToPercentile(sten),
		Theta:      &theta,
		ItemCount:  len(correctness),
	}, nil
}
