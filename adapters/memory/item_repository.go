package memory

import (
	"context"
	"sync"

	"assesscore/domain/core"
	"assesscore/domain/item"
	"assesscore/domain/scale"
	"assesscore/ports"
)

// ItemRepository is an in-memory ports.ItemRepository over a fixed,
// seeded item bank.
type ItemRepository struct {
	mu    sync.RWMutex
	items map[core.ItemID]item.Item
}

// NewItemRepository seeds an in-memory item bank.
func NewItemRepository(items []item.Item) *ItemRepository {
	r := &ItemRepository{items: make(map[core.ItemID]item.Item, len(items))}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

var _ ports.ItemRepository = (*ItemRepository)(nil)

func (r *ItemRepository) Get(_ context.Context, id core.ItemID) (item.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return item.Item{}, core.NewNotFoundError("item", id.String())
	}
	return it, nil
}

func (r *ItemRepository) ListActiveByScale(_ context.Context, scaleID core.ScaleID) ([]item.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []item.Item
	for _, it := range r.items {
		if it.Active && it.ScaleID == scaleID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *ItemRepository) ListActiveByDomain(_ context.Context, domain scale.Domain) ([]item.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []item.Item
	for _, it := range r.items {
		if it.Active && it.Domain == domain {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *ItemRepository) ListByIDs(_ context.Context, ids []core.ItemID) (map[core.ItemID]item.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[core.ItemID]item.Item, len(ids))
	for _, id := range ids {
		if it, ok := r.items[id]; ok {
			out[id] = it
		}
	}
	return out, nil
}
