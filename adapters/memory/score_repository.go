package memory

import (
	"context"
	"sync"

	"assesscore/domain/core"
	"assesscore/domain/score"
	"assesscore/ports"
)

// ScaleScoreRepository is an in-memory ports.ScaleScoreRepository.
type ScaleScoreRepository struct {
	mu     sync.RWMutex
	scores map[core.AssessmentID][]score.ScaleScore
}

// NewScaleScoreRepository creates an empty in-memory score repository.
func NewScaleScoreRepository() *ScaleScoreRepository {
	return &ScaleScoreRepository{scores: make(map[core.AssessmentID][]score.ScaleScore)}
}

var _ ports.ScaleScoreRepository = (*ScaleScoreRepository)(nil)

// SaveAll overwrites the full set of scores for an assessment, making
// CompleteAssessment's score-finalization idempotent (§5, property 10):
// a second call with the same input yields the same stored set.
func (r *ScaleScoreRepository) SaveAll(_ context.Context, assessmentID core.AssessmentID, scores []score.ScaleScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]score.ScaleScore, len(scores))
	copy(stored, scores)
	r.scores[assessmentID] = stored
	return nil
}

func (r *ScaleScoreRepository) ListByAssessment(_ context.Context, assessmentID core.AssessmentID) ([]score.ScaleScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]score.ScaleScore, len(r.scores[assessmentID]))
	copy(out, r.scores[assessmentID])
	return out, nil
}
