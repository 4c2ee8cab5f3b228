// Package interview implements §4.6's pure lookup from a deviation's
// (scale, direction) to curated interview questions.
package interview

import (
	"fmt"

	"assesscore/domain/core"
	"assesscore/domain/interview"
	"assesscore/domain/jobmodel"
)

// catalog maps a scale to its curated question set per direction. Entries
// are seeded for a few common behavioral and cognitive scales; any scale
// absent from this table falls back to the generic template questions in
// genericQuestions.
var catalog = map[core.ScaleID]map[jobmodel.Direction][]interview.Question{
	"assertiveness": {
		jobmodel.DirectionHigh: {
			{ID: "assertiveness-high-1", Text: "Tell me about a time your directness created friction with a colleague. How did you handle it?", Category: "conflict"},
			{ID: "assertiveness-high-2", Text: "Describe a decision you pushed through despite pushback. What made you confident it was right?", Category: "decision-making"},
		},
		jobmodel.DirectionLow: {
			{ID: "assertiveness-low-1", Text: "Describe a time you needed to push back on a stakeholder's request. What did you do?", Category: "conflict"},
			{ID: "assertiveness-low-2", Text: "Tell me about a situation where staying quiet cost you or your team something.", Category: "communication"},
		},
	},
	"conscientiousness": {
		jobmodel.DirectionHigh: {
			{ID: "conscientiousness-high-1", Text: "Tell me about a time your attention to detail slowed a project down. How did you balance thoroughness with speed?", Category: "work-style"},
			{ID: "conscientiousness-high-2", Text: "Describe how you've handled a deadline when the plan you'd prepared stopped fitting reality.", Category: "adaptability"},
		},
		jobmodel.DirectionLow: {
			{ID: "conscientiousness-low-1", Text: "Tell me about a project you let slip. What happened and what did you change afterward?", Category: "reliability"},
			{ID: "conscientiousness-low-2", Text: "Describe your process for keeping track of commitments across multiple priorities.", Category: "organization"},
		},
	},
	"emotional-stability": {
		jobmodel.DirectionHigh: {
			{ID: "emotional-stability-high-1", Text: "Describe a high-pressure situation where staying calm actually hurt your ability to read the room.", Category: "self-awareness"},
		},
		jobmodel.DirectionLow: {
			{ID: "emotional-stability-low-1", Text: "Tell me about a stressful period at work. How did it affect your decisions and relationships?", Category: "resilience"},
			{ID: "emotional-stability-low-2", Text: "Describe how you recover after a setback that rattled you.", Category: "resilience"},
		},
	},
	"verbal": {
		jobmodel.DirectionLow: {
			{ID: "verbal-low-1", Text: "Walk me through how you'd explain a technical decision to a non-technical stakeholder.", Category: "communication"},
		},
	},
	"numerical": {
		jobmodel.DirectionLow: {
			{ID: "numerical-low-1", Text: "Tell me about a time you had to make a decision using incomplete or noisy data.", Category: "reasoning"},
		},
	},
}

// genericQuestions produces the two-question fallback for a scale the
// catalog has no curated entries for, interpolating the scale's display
// name per §4.6.
func genericQuestions(scaleName string, direction jobmodel.Direction) []interview.Question {
	word := "high"
	if direction == jobmodel.DirectionLow {
		word = "low"
	}
	return []interview.Question{
		{
			ID:       fmt.Sprintf("generic-%s-1", direction),
			Text:     fmt.Sprintf("Tell me about a time your %s level of %s showed up in your work.", word, scaleName),
			Category: "generic",
		},
		{
			ID:       fmt.Sprintf("generic-%s-2", direction),
			Text:     fmt.Sprintf("Describe a situation where your %s could have been a risk, and how you managed it.", scaleName),
			Category: "generic",
		},
	}
}

// questionsFor resolves the curated (or generic fallback) questions for a
// scale/direction pair.
func questionsFor(scaleID core.ScaleID, scaleName string, direction jobmodel.Direction) []interview.Question {
	if byDirection, ok := catalog[scaleID]; ok {
		if qs, ok := byDirection[direction]; ok && len(qs) > 0 {
			return qs
		}
	}
	return genericQuestions(scaleName, direction)
}
