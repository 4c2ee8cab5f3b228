package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"assesscore/domain/core"
	"assesscore/domain/scale"
	"assesscore/ports"
)

// ScaleRepository implements ports.ScaleRepository for PostgreSQL.
type ScaleRepository struct {
	db *sqlx.DB
}

// NewScaleRepository creates a PostgreSQL scale repository.
func NewScaleRepository(db *sqlx.DB) *ScaleRepository {
	return &ScaleRepository{db: db}
}

var _ ports.ScaleRepository = (*ScaleRepository)(nil)

type scaleRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Domain      string         `db:"domain"`
	Type        string         `db:"type"`
	CompositeOf pq.StringArray `db:"composite_of"`
}

func (row scaleRow) toDomain() scale.Scale {
	composite := make([]core.ScaleID, len(row.CompositeOf))
	for i, id := range row.CompositeOf {
		composite[i] = core.ScaleID(id)
	}
	return scale.Scale{
		ID:          core.ScaleID(row.ID),
		Name:        row.Name,
		Domain:      scale.Domain(row.Domain),
		Type:        scale.Type(row.Type),
		CompositeOf: composite,
	}
}

func (r *ScaleRepository) Get(ctx context.Context, id core.ScaleID) (scale.Scale, error) {
	var row scaleRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, name, domain, type, composite_of FROM scales WHERE id = $1
	`, id.String())
	if err != nil {
		return scale.Scale{}, translateNotFound(err, "scale", id.String())
	}
	return row.toDomain(), nil
}

func (r *ScaleRepository) ListByDomain(ctx context.Context, domain scale.Domain) ([]scale.Scale, error) {
	var rows []scaleRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, domain, type, composite_of FROM scales WHERE domain = $1
	`, string(domain))
	if err != nil {
		return nil, err
	}
	return toScales(rows), nil
}

func (r *ScaleRepository) ListAll(ctx context.Context) ([]scale.Scale, error) {
	var rows []scaleRow
	err := r.db.SelectContext(ctx, &rows, `SELECT id, name, domain, type, composite_of FROM scales`)
	if err != nil {
		return nil, err
	}
	return toScales(rows), nil
}

func toScales(rows []scaleRow) []scale.Scale {
	out := make([]scale.Scale, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out
}
