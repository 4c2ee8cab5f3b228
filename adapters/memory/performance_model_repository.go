package memory

import (
	"context"
	"sync"

	"assesscore/domain/core"
	"assesscore/domain/jobmodel"
	"assesscore/ports"
)

// PerformanceModelRepository is an in-memory ports.PerformanceModelRepository.
type PerformanceModelRepository struct {
	mu     sync.RWMutex
	models map[core.PerformanceModelID]jobmodel.PerformanceModel
}

// NewPerformanceModelRepository seeds an in-memory model catalog.
func NewPerformanceModelRepository(models []jobmodel.PerformanceModel) *PerformanceModelRepository {
	r := &PerformanceModelRepository{models: make(map[core.PerformanceModelID]jobmodel.PerformanceModel, len(models))}
	for _, m := range models {
		r.models[m.ID] = m
	}
	return r
}

var _ ports.PerformanceModelRepository = (*PerformanceModelRepository)(nil)

func (r *PerformanceModelRepository) Get(_ context.Context, id core.PerformanceModelID) (jobmodel.PerformanceModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[id]
	if !ok {
		return jobmodel.PerformanceModel{}, core.NewNotFoundError("performance_model", id.String())
	}
	return m, nil
}

func (r *PerformanceModelRepository) ListAll(_ context.Context) ([]jobmodel.PerformanceModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]jobmodel.PerformanceModel, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	return out, nil
}
