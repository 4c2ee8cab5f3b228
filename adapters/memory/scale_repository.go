package memory

import (
	"context"
	"sync"

	"assesscore/domain/core"
	"assesscore/domain/scale"
	"assesscore/ports"
)

// ScaleRepository is an in-memory ports.ScaleRepository over a fixed,
// seeded catalog.
type ScaleRepository struct {
	mu     sync.RWMutex
	scales map[core.ScaleID]scale.Scale
}

// NewScaleRepository seeds an in-memory scale catalog.
func NewScaleRepository(scales []scale.Scale) *ScaleRepository {
	r := &ScaleRepository{scales: make(map[core.ScaleID]scale.Scale, len(scales))}
	for _, s := range scales {
		r.scales[s.ID] = s
	}
	return r
}

var _ ports.ScaleRepository = (*ScaleRepository)(nil)

func (r *ScaleRepository) Get(_ context.Context, id core.ScaleID) (scale.Scale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scales[id]
	if !ok {
		return scale.Scale{}, core.NewNotFoundError("scale", id.String())
	}
	return s, nil
}

func (r *ScaleRepository) ListByDomain(_ context.Context, domain scale.Domain) ([]scale.Scale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []scale.Scale
	for _, s := range r.scales {
		if s.Domain == domain {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *ScaleRepository) ListAll(_ context.Context) ([]scale.Scale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]scale.Scale, 0, len(r.scales))
	for _, s := range r.scales {
		out = append(out, s)
	}
	return out, nil
}
