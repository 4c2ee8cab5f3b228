package ports

import (
	"context"

	"assesscore/domain/candidate"
	"assesscore/domain/core"
)

// CandidateRepository persists Candidate entities.
type CandidateRepository interface {
	Create(ctx context.Context, c candidate.Candidate) error
	Get(ctx context.Context, id core.CandidateID) (candidate.Candidate, error)
}
