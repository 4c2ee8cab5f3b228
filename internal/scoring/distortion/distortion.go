// Package distortion implements the §4.3 validity/faking-good detector:
// a STEN computed from flagged distortion items, a response-consistency
// score, three response-pattern checks over the full behavioral stream, and
// the combined use/interview/discard recommendation.
package distortion

import (
	"math"

	"github.com/montanaflynn/stats"

	"assesscore/internal/statprim"
)

// Category is the §4.3 distortion STEN bucket.
type Category string

const (
	CategoryValid   Category = "valid"
	CategoryWarning Category = "warning"
	CategoryInvalid Category = "invalid"
)

// Recommendation is the §4.7 combined use/interview/discard verdict.
type Recommendation string

const (
	RecommendationUse       Recommendation = "use"
	RecommendationInterview Recommendation = "interview"
	RecommendationDiscard   Recommendation = "discard"
)

// Result bundles everything the §4.3 distortion detector emits.
type Result struct {
	STEN           int
	Category       Category
	Consistency    float64 // 0..100
	StraightLine   bool
	Alternating    bool
	Random         bool
	Recommendation Recommendation
}

// Categorize maps a distortion STEN to its validity category, exported so
// callers holding only a previously-stored distortion STEN (the match
// engine, reading a persisted ScaleScore) can classify it without
// re-running Detect. The open question this resolves: high STEN (heavy
// endorsement of socially-desirable "too good" items) is the distorted
// direction, so ≥7→invalid is adopted over the inverted reading seen
// elsewhere in the source.
func Categorize(sten int) Category {
	switch {
	case sten >= 7:
		return CategoryInvalid
	case sten >= 4:
		return CategoryWarning
	default:
		return CategoryValid
	}
}

// consistencyScore converts the standard deviation of the distortion
// responses into a 0..100 consistency score: min(100, (σ/1.5)*100).
func consistencyScore(responses []int) float64 {
	if len(responses) < 2 {
		return 0
	}
	data := make([]float64, len(responses))
	for i, r := range responses {
		data[i] = float64(r)
	}
	sigma, err := stats.StandardDeviation(data)
	if err != nil {
		return 0
	}
	score := (sigma / 1.5) * 100
	if score > 100 {
		return 100
	}
	return score
}

// isStraightLine reports whether every response in the stream is
// identical, requiring at least 5 responses to be meaningful.
func isStraightLine(stream []int) bool {
	if len(stream) < 5 {
		return false
	}
	first := stream[0]
	for _, v := range stream {
		if v != first {
			return false
		}
	}
	return true
}

// isAlternating reports whether at least 80% of stride-2 adjacent pairs are
// equal (response[i] == response[i+2]), the signature of an ABABAB... zig-
// zag pattern.
func isAlternating(stream []int) bool {
	if len(stream) < 3 {
		return false
	}
	pairs := 0
	equal := 0
	for i := 0; i+2 < len(stream); i++ {
		pairs++
		if stream[i] == stream[i+2] {
			equal++
		}
	}
	if pairs == 0 {
		return false
	}
	return float64(equal)/float64(pairs) >= 0.8
}

// runs counts the number of maximal runs of equal adjacent values in the
// stream (a run of "5,5,5,3,3" is 2 runs).
func runs(stream []int) int {
	if len(stream) == 0 {
		return 0
	}
	n := 1
	for i := 1; i < len(stream); i++ {
		if stream[i] != stream[i-1] {
			n++
		}
	}
	return n
}

// isRandom reports whether the observed run count is close to the
// expected run count of a random sequence, (2n-1)/3, within a 0.3 relative
// tolerance.
func isRandom(stream []int) bool {
	n := len(stream)
	if n < 3 {
		return false
	}
	expected := (2*float64(n) - 1) / 3
	observed := float64(runs(stream))
	return math.Abs(observed-expected) < 0.3*expected
}

// recommendation implements the §4.7 combined rule: discard if invalid or
// random; interview if warning, straight-line, or alternating; use
// otherwise.
func recommendation(category Category, straightLine, alternating, random bool) Recommendation {
	if category == CategoryInvalid || random {
		return RecommendationDiscard
	}
	if category == CategoryWarning || straightLine || alternating {
		return RecommendationInterview
	}
	return RecommendationUse
}

// Detect runs the full §4.3 distortion detector. distortionResponses is
// the Likert (1..5) responses to items flagged distortion=true;
// fullBehavioralStream is every behavioral-section response value in
// administration order, used for the pattern checks.
func Detect(distortionResponses []int, fullBehavioralStream []int) Result {
	sten := statprim.LikertSumToSten(distortionResponses)
	category := Categorize(sten)
	straightLine := isStraightLine(fullBehavioralStream)
	alternating := isAlternating(fullBehavioralStream)
	random := isRandom(fullBehavioralStream)

	return Result{
		STEN:           sten,
		Category:       category,
		Consistency:    consistencyScore(distortionResponses),
		StraightLine:   straightLine,
		Alternating:    alternating,
		Random:         random,
		Recommendation: recommendation(category, straightLine, alternating, random),
	}
}
