package jobmodel

import "assesscore/domain/core"

// Direction describes which side of the target band a candidate's STEN
// falls on.
type Direction string

const (
	DirectionHigh Direction = "high"
	DirectionLow  Direction = "low"
	DirectionIn   Direction = "in"
)

// Deviation is a per-scale diagnostic record for reporting (§4.5).
type Deviation struct {
	ScaleID       core.ScaleID
	CandidateSTEN int
	TargetMin     int
	TargetMax     int
	Distance      int
	Direction     Direction
}

// JobMatch is the derived result of matching a candidate's profile against
// a PerformanceModel: an overall fit, per-domain fits, and per-scale
// deviations. It is not necessarily persisted.
type JobMatch struct {
	AssessmentID     core.AssessmentID
	PerformanceModel core.PerformanceModelID
	Overall          int // 0..100
	Cognitive        float64
	Behavioral       float64
	Interests        float64
	Deviations       []Deviation
	MissingScales    []core.ScaleID // model scales with no ScaleScore available
	ValidityWarning  bool           // true when the candidate's distortion category is "invalid"
}
