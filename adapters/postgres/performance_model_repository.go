package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"assesscore/domain/core"
	"assesscore/domain/jobmodel"
	"assesscore/ports"
)

// PerformanceModelRepository implements ports.PerformanceModelRepository
// for PostgreSQL.
type PerformanceModelRepository struct {
	db *sqlx.DB
}

// NewPerformanceModelRepository creates a PostgreSQL performance model
// repository.
func NewPerformanceModelRepository(db *sqlx.DB) *PerformanceModelRepository {
	return &PerformanceModelRepository{db: db}
}

var _ ports.PerformanceModelRepository = (*PerformanceModelRepository)(nil)

type modelRangeRow struct {
	ModelID   string  `db:"model_id"`
	ScaleID   string  `db:"scale_id"`
	TargetMin int     `db:"target_min"`
	TargetMax int     `db:"target_max"`
	Weight    float64 `db:"weight"`
}

func (r *PerformanceModelRepository) Get(ctx context.Context, id core.PerformanceModelID) (jobmodel.PerformanceModel, error) {
	type modelRow struct {
		ID       string `db:"id"`
		Name     string `db:"name"`
		Category string `db:"category"`
		Template bool   `db:"template"`
	}
	var row modelRow
	err := r.db.GetContext(ctx, &row, `SELECT id, name, category, template FROM performance_models WHERE id = $1`, id.String())
	if err != nil {
		return jobmodel.PerformanceModel{}, translateNotFound(err, "performance_model", id.String())
	}

	ranges, err := r.rangesFor(ctx, id.String())
	if err != nil {
		return jobmodel.PerformanceModel{}, err
	}

	return jobmodel.PerformanceModel{
		ID:       core.PerformanceModelID(row.ID),
		Name:     row.Name,
		Category: row.Category,
		Template: row.Template,
		Ranges:   ranges,
	}, nil
}

func (r *PerformanceModelRepository) ListAll(ctx context.Context) ([]jobmodel.PerformanceModel, error) {
	type modelRow struct {
		ID       string `db:"id"`
		Name     string `db:"name"`
		Category string `db:"category"`
		Template bool   `db:"template"`
	}
	var rows []modelRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name, category, template FROM performance_models`); err != nil {
		return nil, err
	}

	out := make([]jobmodel.PerformanceModel, len(rows))
	for i, row := range rows {
		ranges, err := r.rangesFor(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		out[i] = jobmodel.PerformanceModel{
			ID:       core.PerformanceModelID(row.ID),
			Name:     row.Name,
			Category: row.Category,
			Template: row.Template,
			Ranges:   ranges,
		}
	}
	return out, nil
}

func (r *PerformanceModelRepository) rangesFor(ctx context.Context, modelID string) ([]jobmodel.ModelScaleRange, error) {
	var rows []modelRangeRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT model_id, scale_id, target_min, target_max, weight
		FROM model_scale_ranges WHERE model_id = $1
	`, modelID)
	if err != nil {
		return nil, err
	}
	out := make([]jobmodel.ModelScaleRange, len(rows))
	for i, row := range rows {
		out[i] = jobmodel.ModelScaleRange{
			ScaleID:   core.ScaleID(row.ScaleID),
			TargetMin: row.TargetMin,
			TargetMax: row.TargetMax,
			Weight:    row.Weight,
		}
	}
	return out, nil
}
