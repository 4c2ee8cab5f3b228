// Package jobmodel defines the PerformanceModel and the derived JobMatch
// the §4.5 job-match engine produces.
package jobmodel

import "assesscore/domain/core"

// ModelScaleRange is one scale's ideal-incumbent band and contribution
// weight within a PerformanceModel.
type ModelScaleRange struct {
	ScaleID   core.ScaleID
	TargetMin int // 1..10
	TargetMax int // 1..10
	Weight    float64
}

// Validate enforces targetMin<=targetMax and weight>0 (§3).
func (r ModelScaleRange) Validate() error {
	if r.TargetMin < 1 || r.TargetMin > 10 || r.TargetMax < 1 || r.TargetMax > 10 {
		return core.NewInputInvalidError("model_scale_range.target", "targetMin/targetMax must be in [1,10]")
	}
	if r.TargetMin > r.TargetMax {
		return core.NewInputInvalidError("model_scale_range.target", "targetMin must be <= targetMax")
	}
	if r.Weight <= 0 {
		return core.NewInputInvalidError("model_scale_range.weight", "must be > 0")
	}
	return nil
}

// Midpoint is the band's center, used by the interests rank-order match.
func (r ModelScaleRange) Midpoint() float64 {
	return (float64(r.TargetMin) + float64(r.TargetMax)) / 2
}

// PerformanceModel is a named set of per-scale STEN bands describing an
// ideal incumbent for a role.
type PerformanceModel struct {
	ID       core.PerformanceModelID
	Name     string
	Category string
	Template bool
	Ranges   []ModelScaleRange
}

// Validate checks the model's own invariants and each of its ranges.
func (m PerformanceModel) Validate() error {
	if m.ID.String() == "" {
		return core.NewInputInvalidError("performance_model.id", "must not be empty")
	}
	if m.Name == "" {
		return core.NewInputInvalidError("performance_model.name", "must not be empty")
	}
	for _, r := range m.Ranges {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RangeFor returns the ModelScaleRange for scaleID, if the model weights it.
func (m PerformanceModel) RangeFor(scaleID core.ScaleID) (ModelScaleRange, bool) {
	for _, r := range m.Ranges {
		if r.ScaleID == scaleID {
			return r, true
		}
	}
	return ModelScaleRange{}, false
}
