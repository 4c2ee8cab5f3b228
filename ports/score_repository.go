package ports

import (
	"context"

	"assesscore/domain/core"
	"assesscore/domain/score"
)

// ScaleScoreRepository persists the ScaleScore rows produced once at
// assessment completion.
type ScaleScoreRepository interface {
	SaveAll(ctx context.Context, assessmentID core.AssessmentID, scores []score.ScaleScore) error
	ListByAssessment(ctx context.Context, assessmentID core.AssessmentID) ([]score.ScaleScore, error)
}
