package ports

import (
	"context"

	"assesscore/domain/core"
	"assesscore/domain/jobmodel"
)

// PerformanceModelRepository reads job Performance Models used by the
// match engine.
type PerformanceModelRepository interface {
	Get(ctx context.Context, id core.PerformanceModelID) (jobmodel.PerformanceModel, error)
	ListAll(ctx context.Context) ([]jobmodel.PerformanceModel, error)
}
