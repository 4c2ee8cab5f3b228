package ports

import (
	"context"

	"assesscore/domain/core"
	"assesscore/domain/scale"
)

// ScaleRepository reads the immutable-after-seeding Scale catalog.
type ScaleRepository interface {
	Get(ctx context.Context, id core.ScaleID) (scale.Scale, error)
	ListByDomain(ctx context.Context, domain scale.Domain) ([]scale.Scale, error)
	ListAll(ctx context.Context) ([]scale.Scale, error)
}
