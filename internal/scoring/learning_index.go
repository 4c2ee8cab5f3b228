package scoring

import (
	"assesscore/domain/core"
	"assesscore/domain/score"
	"assesscore/internal/statprim"
)

// defaultLearningIndexLo/Hi are the §4.3 documented bounds [80,400], which
// assume ~20 items/scale at a [1,5]-per-item range (4*20*1, 4*20*5). Used
// only when the caller cannot supply actual per-scale item counts (§9 open
// question: "derive bounds from actual item counts" when they differ).
const (
	defaultLearningIndexLo = 80.0
	defaultLearningIndexHi = 400.0
)

// LearningIndexBounds derives the §4.3 learning-index raw-score bounds from
// the actual number of items per cognitive sub-scale, falling back to the
// spec's documented [80,400] default when itemsPerScale is unknown (0).
func LearningIndexBounds(itemsPerScale, minPerItem, maxPerItem float64) (lo, hi float64) {
	if itemsPerScale <= 0 {
		return defaultLearningIndexLo, defaultLearningIndexHi
	}
	return 4 * itemsPerScale * minPerItem, 4 * itemsPerScale * maxPerItem
}

// ScoreLearningIndex implements the §4.3 learning-index composite: sum the
// raw scores of the four cognitive sub-scale ScaleScores and convert via
// rawToSten using bounds derived from itemsPerScale (or the [80,400]
// default). learningIndexScaleID names the composite scale the result is
// attributed to.
func ScoreLearningIndex(learningIndexScaleID core.ScaleID, cognitiveScores []score.ScaleScore, itemsPerScale, minPerItem, maxPerItem float64) score.ScaleScore {
	var raw float64
	var itemCount int
	for _, s := range cognitiveScores {
		raw += s.Raw
		itemCount += s.ItemCount
	}

	lo, hi := LearningIndexBounds(itemsPerScale, minPerItem, maxPerItem)
	sten := statprim.RawToSten(raw, lo, hi)

	return score.ScaleScore{
		ScaleID:    learningIndexScaleID,
		Raw:        raw,
		STEN:       sten,
		Percentile: statprim.StenToPercentile(sten),
		ItemCount:  itemCount,
	}
}
