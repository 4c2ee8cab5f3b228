// Package interview defines the output shapes of the §4.6
// interview-question generator: a pure lookup from (scale, direction) to
// curated probes.
package interview

import (
	"assesscore/domain/core"
	"assesscore/domain/jobmodel"
)

// Question is one curated interview probe.
type Question struct {
	ID       string
	Text     string
	Category string
}

// QuestionBlock bundles the scale context for a deviation with its curated
// questions.
type QuestionBlock struct {
	ScaleID       core.ScaleID
	ScaleName     string
	Direction     jobmodel.Direction
	CandidateSTEN int
	TargetMin     int
	TargetMax     int
	Questions     []Question
}
