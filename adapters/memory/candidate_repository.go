// Package memory implements every ports.* repository interface over plain
// in-process maps guarded by mutexes, for tests and single-process
// deployments that don't need postgres.
package memory

import (
	"context"
	"sync"

	"assesscore/domain/candidate"
	"assesscore/domain/core"
	"assesscore/ports"
)

// CandidateRepository is an in-memory ports.CandidateRepository.
type CandidateRepository struct {
	mu         sync.RWMutex
	candidates map[core.CandidateID]candidate.Candidate
}

// NewCandidateRepository creates an empty in-memory candidate repository.
func NewCandidateRepository() *CandidateRepository {
	return &CandidateRepository{candidates: make(map[core.CandidateID]candidate.Candidate)}
}

var _ ports.CandidateRepository = (*CandidateRepository)(nil)

func (r *CandidateRepository) Create(_ context.Context, c candidate.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates[c.ID] = c
	return nil
}

func (r *CandidateRepository) Get(_ context.Context, id core.CandidateID) (candidate.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.candidates[id]
	if !ok {
		return candidate.Candidate{}, core.NewNotFoundError("candidate", id.String())
	}
	return c, nil
}
