package ports

import (
	"context"

	"assesscore/domain/core"
	"assesscore/domain/item"
	"assesscore/domain/scale"
)

// ItemRepository reads the immutable-after-authoring Item bank.
type ItemRepository interface {
	Get(ctx context.Context, id core.ItemID) (item.Item, error)
	ListActiveByScale(ctx context.Context, scaleID core.ScaleID) ([]item.Item, error)
	ListActiveByDomain(ctx context.Context, domain scale.Domain) ([]item.Item, error)
	// ListByIDs fetches items in bulk, used by scorers that already hold a
	// set of administered item ids from the response stream.
	ListByIDs(ctx context.Context, ids []core.ItemID) (map[core.ItemID]item.Item, error)
}
