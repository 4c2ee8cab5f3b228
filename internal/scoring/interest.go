package scoring

import (
	"math"
	"sort"

	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/domain/item"
	"assesscore/domain/score"
	"assesscore/internal/statprim"
)

// InterestTally is one interest scale's ipsative win count.
type InterestTally struct {
	ScaleID core.ScaleID
	Wins    int
}

// TallyInterestWins implements the first half of the §4.3 interest scorer:
// initializes every scale in interestScaleIDs to 0 wins, then for each
// forced-choice pair response whose pairing is an interest pair (exactly
// one scale per option), increments the winning scale's count.
func TallyInterestWins(itemsByID map[core.ItemID]item.Item, responses []assessment.Response, interestScaleIDs []core.ScaleID) map[core.ScaleID]int {
	wins := make(map[core.ScaleID]int, len(interestScaleIDs))
	for _, scaleID := range interestScaleIDs {
		wins[scaleID] = 0
	}
	for _, r := range responses {
		it, ok := itemsByID[r.ItemID]
		if !ok || it.Format != item.FormatForcedChoice || it.ForcedChoice == nil {
			continue
		}
		if !it.ForcedChoice.IsInterestPair() {
			continue
		}
		fc, ok := r.Value.(assessment.ForcedChoiceResponse)
		if !ok {
			continue
		}
		var winner core.ScaleID
		switch fc.Value {
		case "A":
			for scaleID := range it.ForcedChoice.OptionA.Loadings {
				winner = scaleID
			}
		case "B":
			for scaleID := range it.ForcedChoice.OptionB.Loadings {
				winner = scaleID
			}
		}
		if winner != "" {
			wins[winner]++
		}
	}
	return wins
}

// rankInterestScales ranks scales descending by win count, ties broken by
// stable scale id order (§4.3).
func rankInterestScales(wins map[core.ScaleID]int) []InterestTally {
	tallies := make([]InterestTally, 0, len(wins))
	for scaleID, w := range wins {
		tallies = append(tallies, InterestTally{ScaleID: scaleID, Wins: w})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Wins != tallies[j].Wins {
			return tallies[i].Wins > tallies[j].Wins
		}
		return tallies[i].ScaleID < tallies[j].ScaleID
	})
	return tallies
}

// percentileToSten converts a rank-derived percentile (0..100) to a STEN
// via the inverse-normal mapping §4.1/§4.3 share with rawToSten.
func percentileToSten(percentile float64) int {
	p := percentile / 100
	if p <= 0 {
		return 1
	}
	if p >= 1 {
		return 10
	}
	z := statprim.NormalInverse(p)
	sten := int(math.Round(5.5 + 2*z))
	if sten < 1 {
		return 1
	}
	if sten > 10 {
		return 10
	}
	return sten
}

// ScoreInterests implements the full §4.3 interest scorer: win tally
// (seeded at 0 for every scale in interestScaleIDs so a scale that loses
// every pair it appears in still gets ranked and scored), rank,
// rank→percentile→STEN, one score.ScaleScore per interest scale.
func ScoreInterests(itemsByID map[core.ItemID]item.Item, responses []assessment.Response, interestScaleIDs []core.ScaleID) map[core.ScaleID]score.ScaleScore {
	wins := TallyInterestWins(itemsByID, responses, interestScaleIDs)
	ranked := rankInterestScales(wins)
	n := len(interestScaleIDs)

	out := make(map[core.ScaleID]score.ScaleScore, n)
	for i, tally := range ranked {
		rank := i + 1
		percentile := (float64(n-rank) + 0.5) / float64(n) * 100
		sten := percentileToSten(percentile)
		out[tally.ScaleID] = score.ScaleScore{
			ScaleID:    tally.ScaleID,
			Raw:        float64(tally.Wins),
			STEN:       sten,
			Percentile: percentile,
			ItemCount:  tally.Wins,
		}
	}
	return out
}

// Top3Interests returns the three interest scales with the highest STEN,
// ties broken by higher raw win count then by scale id (§4.3).
func Top3Interests(scores map[core.ScaleID]score.ScaleScore) []core.ScaleID {
	ids := make([]core.ScaleID, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := scores[ids[i]], scores[ids[j]]
		if a.STEN != b.STEN {
			return a.STEN > b.STEN
		}
		if a.Raw != b.Raw {
			return a.Raw > b.Raw
		}
		return ids[i] < ids[j]
	})
	if len(ids) > 3 {
		ids = ids[:3]
	}
	return ids
}
