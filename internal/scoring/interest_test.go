package scoring

import (
	"testing"

	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/domain/item"
)

func interestPairItem(id core.ItemID, a, b core.ScaleID) item.Item {
	return item.Item{
		ID: id, ScaleID: a, Text: "q", Format: item.FormatForcedChoice,
		ForcedChoice: &item.ForcedChoicePairing{
			OptionA: item.ForcedChoiceOption{Loadings: map[core.ScaleID]float64{a: 1}},
			OptionB: item.ForcedChoiceOption{Loadings: map[core.ScaleID]float64{b: 1}},
		},
	}
}

// TestProperty9InterestTopThreeDeterministicOnTie verifies property 9: when
// the winning scales tie on win count (one win each, the other three at
// zero), the top-3 is deterministic under the documented id tiebreak.
func TestProperty9InterestTopThreeDeterministicOnTie(t *testing.T) {
	items := map[core.ItemID]item.Item{
		"p1": interestPairItem("p1", "realistic", "investigative"),
		"p2": interestPairItem("p2", "artistic", "social"),
		"p3": interestPairItem("p3", "enterprising", "conventional"),
	}
	responses := []assessment.Response{
		{ItemID: "p1", Value: assessment.ForcedChoiceResponse{Value: "A"}},
		{ItemID: "p2", Value: assessment.ForcedChoiceResponse{Value: "A"}},
		{ItemID: "p3", Value: assessment.ForcedChoiceResponse{Value: "A"}},
	}
	allScaleIDs := []core.ScaleID{"realistic", "investigative", "artistic", "social", "enterprising", "conventional"}
	scores := ScoreInterests(items, responses, allScaleIDs)
	for _, id := range []core.ScaleID{"realistic", "artistic", "enterprising"} {
		if scores[id].Raw != 1 {
			t.Fatalf("expected scale %s to have 1 win, got %v", id, scores[id].Raw)
		}
	}
	top3 := Top3Interests(scores)
	want := []core.ScaleID{"artistic", "enterprising", "realistic"}
	if len(top3) != 3 {
		t.Fatalf("expected 3 results, got %d", len(top3))
	}
	for i, id := range want {
		if top3[i] != id {
			t.Fatalf("top3[%d] = %s, want %s (deterministic id tiebreak)", i, top3[i], id)
		}
	}
}

func TestScoreInterestsRankOrdering(t *testing.T) {
	items := map[core.ItemID]item.Item{
		"p1": interestPairItem("p1", "realistic", "investigative"),
		"p2": interestPairItem("p2", "realistic", "artistic"),
		"p3": interestPairItem("p3", "realistic", "social"),
	}
	responses := []assessment.Response{
		{ItemID: "p1", Value: assessment.ForcedChoiceResponse{Value: "A"}},
		{ItemID: "p2", Value: assessment.ForcedChoiceResponse{Value: "A"}},
		{ItemID: "p3", Value: assessment.ForcedChoiceResponse{Value: "A"}},
	}
	allScaleIDs := []core.ScaleID{"realistic", "investigative", "artistic", "social", "enterprising", "conventional"}
	scores := ScoreInterests(items, responses, allScaleIDs)
	if scores["realistic"].STEN <= scores["investigative"].STEN {
		t.Fatalf("realistic (3 wins) should outrank investigative (0 wins): %+v vs %+v",
			scores["realistic"], scores["investigative"])
	}
}

// TestScoreInterestsSeedsZeroWinScales verifies §4.3's "initialize win count
// per interest scale to 0": a scale that never wins a pair still gets ranked
// against the full N=6 scale count, rather than being dropped from the
// result or corrupting the rank→percentile denominator.
func TestScoreInterestsSeedsZeroWinScales(t *testing.T) {
	items := map[core.ItemID]item.Item{
		"p1": interestPairItem("p1", "realistic", "investigative"),
	}
	responses := []assessment.Response{
		{ItemID: "p1", Value: assessment.ForcedChoiceResponse{Value: "A"}},
	}
	allScaleIDs := []core.ScaleID{"realistic", "investigative", "artistic", "social", "enterprising", "conventional"}
	scores := ScoreInterests(items, responses, allScaleIDs)

	if len(scores) != 6 {
		t.Fatalf("expected one ScaleScore per interest scale (6), got %d: %+v", len(scores), scores)
	}
	zeroWin, ok := scores["conventional"]
	if !ok {
		t.Fatal("expected a ScaleScore for a scale that won no pairs")
	}
	if zeroWin.Raw != 0 {
		t.Fatalf("expected 0 raw wins for conventional, got %v", zeroWin.Raw)
	}
	// Five scales tie at 0 wins and rank below the single winner against
	// the full N=6 denominator, not the N=2 value this would produce if
	// the tally weren't seeded with the full scale set.
	if zeroWin.Percentile >= scores["realistic"].Percentile {
		t.Fatalf("zero-win scale should rank below the single winner: %+v vs %+v", zeroWin, scores["realistic"])
	}
}
