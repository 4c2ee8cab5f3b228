package ports

import (
	"context"

	"assesscore/domain/assessment"
	"assesscore/domain/core"
)

// AssessmentRepository persists Assessment aggregates and their Responses.
//
// WithAssessmentLock implements the §5 concurrency requirement: every
// respond/next/complete operation must observe and mutate currentSection/
// currentItemIndex/Responses atomically per assessment, so that two racing
// operations on the same assessment cannot skip or duplicate items. The
// adapter is responsible for the actual serialization primitive (a
// database transaction for the postgres adapter, a per-id mutex for the
// in-memory one); callers simply run their read-modify-write inside fn.
type AssessmentRepository interface {
	Create(ctx context.Context, a assessment.Assessment) error
	Get(ctx context.Context, id core.AssessmentID) (assessment.Assessment, error)
	Update(ctx context.Context, a assessment.Assessment) error

	AppendResponse(ctx context.Context, r assessment.Response) error
	ListResponses(ctx context.Context, assessmentID core.AssessmentID) ([]assessment.Response, error)
	HasResponse(ctx context.Context, assessmentID core.AssessmentID, itemID core.ItemID) (bool, error)

	// WithAssessmentLock serializes fn against every other call holding the
	// same assessmentID's lock, for the duration of fn.
	WithAssessmentLock(ctx context.Context, assessmentID core.AssessmentID, fn func(ctx context.Context) error) error
}
