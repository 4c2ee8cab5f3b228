package scoring

import (
	"testing"

	"assesscore/domain/score"
)

// TestS1STENConversion verifies scenario S1: raw=240 on [80,400] ->
// proportion=0.5 -> z=0 -> STEN=round(5.5)=6, whose logistic percentile
// (StenToPercentile) is 60.
func TestS1STENConversion(t *testing.T) {
	scores := []score.ScaleScore{
		{Raw: 60, ItemCount: 20},
		{Raw: 60, ItemCount: 20},
		{Raw: 60, ItemCount: 20},
		{Raw: 60, ItemCount: 20},
	}
	result := ScoreLearningIndex("learning_index", scores, 0, 0, 0)
	if result.Raw != 240 {
		t.Fatalf("expected raw=240, got %v", result.Raw)
	}
	if result.STEN != 6 {
		t.Fatalf("expected STEN=6 (midpoint), got %d", result.STEN)
	}
	if result.Percentile < 55 || result.Percentile > 65 {
		t.Fatalf("expected percentile ~60, got %v", result.Percentile)
	}
}

func TestLearningIndexBoundsDerivedFromItemCounts(t *testing.T) {
	lo, hi := LearningIndexBounds(10, 1, 5)
	if lo != 40 || hi != 200 {
		t.Fatalf("expected derived bounds (40,200) for itemsPerScale=10, got (%v,%v)", lo, hi)
	}
	lo, hi = LearningIndexBounds(0, 1, 5)
	if lo != 80 || hi != 400 {
		t.Fatalf("expected default bounds (80,400) when itemsPerScale unknown, got (%v,%v)", lo, hi)
	}
}
