// Package score defines the ScaleScore entity produced once per scale at
// assessment completion.
package score

import (
	"time"

	"assesscore/domain/core"
)

// ScaleScore is one scale's standardized result for one assessment.
type ScaleScore struct {
	ID           core.ScaleScoreID
	AssessmentID core.AssessmentID
	ScaleID      core.ScaleID
	Raw          float64
	STEN         int // integer 1..10
	Percentile   float64
	Theta        *float64 // cognitive scales only
	ItemCount    int
	ComputedAt   time.Time
}

// Validate enforces the STEN integer-clamp invariant from §3.
func (s ScaleScore) Validate() error {
	if s.STEN < 1 || s.STEN > 10 {
		return core.NewInputInvalidError("scale_score.sten", "must be an integer in [1,10]")
	}
	if s.ItemCount < 0 {
		return core.NewInputInvalidError("scale_score.item_count", "must not be negative")
	}
	return nil
}
