package scoring

import (
	"testing"

	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/domain/item"
	"assesscore/internal/irt"
)

func cognitiveItem(id core.ItemID, scaleID core.ScaleID) item.Item {
	return item.Item{
		ID: id, ScaleID: scaleID, Text: "q", Format: item.FormatMultipleChoice,
		CorrectAnswer: "a", IRT: item.IRTParams{A: 1.0, B: 0.0, C: 0.25},
	}
}

func boolPtr(b bool) *bool { return &b }

func TestScoreCognitiveFiltersToScale(t *testing.T) {
	items := map[core.ItemID]item.Item{
		"v1": cognitiveItem("v1", "verbal"),
		"v2": cognitiveItem("v2", "verbal"),
		"n1": cognitiveItem("n1", "numerical"),
	}
	responses := []assessment.Response{
		{ItemID: "v1", IsCorrect: boolPtr(true)},
		{ItemID: "v2", IsCorrect: boolPtr(false)},
		{ItemID: "n1", IsCorrect: boolPtr(true)},
	}
	result, err := ScoreCognitive("verbal", items, responses, irt.DefaultPrior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ItemCount != 2 {
		t.Fatalf("expected only verbal responses counted, got itemCount=%d", result.ItemCount)
	}
	if result.Raw != 1 {
		t.Fatalf("expected raw=1 correct, got %v", result.Raw)
	}
	if result.Theta == nil {
		t.Fatal("expected a theta estimate to be recorded")
	}
	if result.STEN < 1 || result.STEN > 10 {
		t.Fatalf("STEN out of range: %d", result.STEN)
	}
}

func TestScoreCognitiveNoResponsesYieldsEmptyScore(t *testing.T) {
	result, err := ScoreCognitive("verbal", map[core.ItemID]item.Item{}, nil, irt.DefaultPrior)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ItemCount != 0 || result.Theta != nil {
		t.Fatalf("expected zero-value result, got %+v", result)
	}
}
