package interview

import (
	"context"

	"assesscore/domain/core"
	"assesscore/domain/interview"
	"assesscore/domain/jobmodel"
	"assesscore/internal"
	"assesscore/ports"
)

// Matcher is the subset of app/match.Engine the generator depends on: it
// needs the JobMatch's deviations, not the engine's repositories.
type Matcher interface {
	ComputeMatch(ctx context.Context, assessmentID core.AssessmentID, modelID core.PerformanceModelID) (jobmodel.JobMatch, error)
}

// Generator implements §4.6: for every deviation≠"in" produced by the
// match engine, emit a QuestionBlock with the scale's curated (or generic
// fallback) questions.
type Generator struct {
	matcher Matcher
	scales  ports.ScaleRepository
	logger  *internal.Logger
}

// NewGenerator wires the generator to a match computation and the scale
// catalog (needed to resolve a scale's display name for generic fallback
// questions).
func NewGenerator(matcher Matcher, scales ports.ScaleRepository, logger *internal.Logger) *Generator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Generator{matcher: matcher, scales: scales, logger: logger}
}

// Generate computes the match for (assessmentID, modelID) and returns one
// QuestionBlock per scale the candidate deviated from the model's band on.
// Scales within band ("in") produce no block; unknown scales still yield
// the generic two-question fallback rather than failing the whole call.
func (g *Generator) Generate(ctx context.Context, assessmentID core.AssessmentID, modelID core.PerformanceModelID) ([]interview.QuestionBlock, error) {
	m, err := g.matcher.ComputeMatch(ctx, assessmentID, modelID)
	if err != nil {
		return nil, err
	}

	blocks := make([]interview.QuestionBlock, 0, len(m.Deviations))
	for _, d := range m.Deviations {
		if d.Direction == jobmodel.DirectionIn {
			continue
		}
		name := string(d.ScaleID)
		if sc, err := g.scales.Get(ctx, d.ScaleID); err == nil {
			name = sc.Name
		}
		blocks = append(blocks, interview.QuestionBlock{
			ScaleID:       d.ScaleID,
			ScaleName:     name,
			Direction:     d.Direction,
			CandidateSTEN: d.CandidateSTEN,
			TargetMin:     d.TargetMin,
			TargetMax:     d.TargetMax,
			Questions:     questionsFor(d.ScaleID, name, d.Direction),
		})
	}
	g.logger.Info("interview questions generated: assessment=%s model=%s blocks=%d", assessmentID, modelID, len(blocks))
	return blocks, nil
}
