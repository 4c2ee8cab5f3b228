package scoring

import (
	"sort"

	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/domain/item"
	"assesscore/domain/score"
	"assesscore/internal/config"
	"assesscore/internal/statprim"
)

// likertRaw reverse-keys (6-x) any response whose item is flagged
// ReverseKeyed, then returns the raw 1..5 values in item.Order sequence.
func likertRaw(scaleID core.ScaleID, itemsByID map[core.ItemID]item.Item, responses []assessment.Response) []int {
	type ordered struct {
		order int
		value int
	}
	var values []ordered
	for _, r := range responses {
		it, ok := itemsByID[r.ItemID]
		if !ok || it.ScaleID != scaleID || it.Format != item.FormatLikert {
			continue
		}
		lr, ok := r.Value.(assessment.LikertResponse)
		if !ok {
			continue
		}
		v := lr.Value
		if it.ReverseKeyed {
			v = 6 - v
		}
		values = append(values, ordered{order: it.Order, value: v})
	}
	sort.Slice(values, func(i, j int) bool { return values[i].order < values[j].order })

	out := make([]int, len(values))
	for i, o := range values {
		out[i] = o.value
	}
	return out
}

// forcedChoiceTraitVector accumulates, for a single trait, loading·sign(choice)
// across every forced-choice MFC response whose pairing loads that trait,
// returning the raw signed total and the number of contributing responses.
func forcedChoiceTraitVector(scaleID core.ScaleID, itemsByID map[core.ItemID]item.Item, responses []assessment.Response) (total float64, n int) {
	for _, r := range responses {
		it, ok := itemsByID[r.ItemID]
		if !ok || it.Format != item.FormatForcedChoice || it.ForcedChoice == nil {
			continue
		}
		loadingA, hasA := it.ForcedChoice.OptionA.Loadings[scaleID]
		loadingB, hasB := it.ForcedChoice.OptionB.Loadings[scaleID]
		if !hasA && !hasB {
			continue
		}
		fc, ok := r.Value.(assessment.ForcedChoiceResponse)
		if !ok {
			continue
		}
		switch fc.Value {
		case "A":
			if hasA {
				total += loadingA
				n++
			}
		case "B":
			if hasB {
				total += loadingB
				n++
			}
		}
	}
	return total, n
}

// normalizeToLikertRange maps a signed accumulator total (contributed to by
// n responses, each capable of contributing at most the largest loading
// magnitude seen) onto the same [1,5]-per-item convention likertRaw uses, so
// both components can be combined via the same likertSumToSten bounds. The
// accumulator is first rescaled to a 1..5-per-response average, then
// expressed as n individual 1..5 "responses" so LikertSumToSten's bounds
// (n·1, n·5) apply uniformly.
func normalizeToLikertRange(total float64, n int) []int {
	if n == 0 {
		return nil
	}
	avg := total/float64(n) + 3 // shift a [-2,2]-ish signed average to [1,5]
	if avg < 1 {
		avg = 1
	}
	if avg > 5 {
		avg = 5
	}
	rounded := int(avg + 0.5)
	out := make([]int, n)
	for i := range out {
		out[i] = rounded
	}
	return out
}

// ScoreBehavioral implements the §4.3 behavioral Likert scorer and
// forced-choice integrator, combined per the blend weight in cfg when a
// scale has evidence from both.
func ScoreBehavioral(scaleID core.ScaleID, itemsByID map[core.ItemID]item.Item, responses []assessment.Response, cfg config.ScoringConfig) score.ScaleScore {
	likert := likertRaw(scaleID, itemsByID, responses)
	fcTotal, fcN := forcedChoiceTraitVector(scaleID, itemsByID, responses)
	fcResponses := normalizeToLikertRange(fcTotal, fcN)

	hasLikert := len(likert) > 0
	hasFC := len(fcResponses) > 0

	switch {
	case hasLikert && !hasFC:
		sten := statprim.LikertSumToSten(likert)
		return score.ScaleScore{
			ScaleID:    scaleID,
			Raw:        sumInts(likert),
			STEN:       sten,
			Percentile: statprim.StenToPercentile(sten),
			ItemCount:  len(likert),
		}
	case hasFC && !hasLikert:
		sten := statprim.LikertSumToSten(fcResponses)
		return score.ScaleScore{
			ScaleID:    scaleID,
			Raw:        sumInts(fcResponses),
			STEN:       sten,
			Percentile: statprim.StenToPercentile(sten),
			ItemCount:  len(fcResponses),
		}
	case hasLikert && hasFC:
		likertSten := statprim.LikertSumToSten(likert)
		fcSten := statprim.LikertSumToSten(fcResponses)
		likertRawSum := sumInts(likert)
		fcRawSum := sumInts(fcResponses)

		w := cfg.LikertForcedChoiceWeight
		combinedRaw := w*likertRawSum + (1-w)*fcRawSum
		combinedSten := int(roundHalfAwayFromZero(w*float64(likertSten) + (1-w)*float64(fcSten)))
		combinedSten = clampSten(combinedSten)

		return score.ScaleScore{
			ScaleID:    scaleID,
			Raw:        combinedRaw,
			STEN:       combinedSten,
			Percentile: statprim.StenToPercentile(combinedSten),
			ItemCount:  len(likert) + len(fcResponses),
		}
	default:
		return score.ScaleScore{ScaleID: scaleID}
	}
}

func sumInts(xs []int) float64 {
	var s float64
	for _, x := range xs {
		s += float64(x)
	}
	return s
}

func roundHalfAwayFromZero(v float64) float64 {
	if v < 0 {
		return -roundHalfAwayFromZero(-v)
	}
	return float64(int(v + 0.5))
}

func clampSten(s int) int {
	if s < 1 {
		return 1
	}
	if s > 10 {
		return 10
	}
	return s
}
