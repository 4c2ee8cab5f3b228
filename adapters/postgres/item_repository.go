package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"assesscore/domain/core"
	"assesscore/domain/item"
	"assesscore/domain/scale"
	"assesscore/ports"
)

// ItemRepository implements ports.ItemRepository for PostgreSQL.
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a PostgreSQL item repository.
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

var _ ports.ItemRepository = (*ItemRepository)(nil)

type itemRow struct {
	ID             string         `db:"id"`
	ScaleID        string         `db:"scale_id"`
	Text           string         `db:"text"`
	Format         string         `db:"format"`
	Options        pq.StringArray `db:"options"`
	CorrectAnswer  sql.NullString `db:"correct_answer"`
	IRTA           float64        `db:"irt_a"`
	IRTB           float64        `db:"irt_b"`
	IRTC           float64        `db:"irt_c"`
	Domain         string         `db:"domain"`
	Distortion     bool           `db:"distortion"`
	Active         bool           `db:"active"`
	ItemOrder      int            `db:"item_order"`
	ReverseKeyed   bool           `db:"reverse_keyed"`
	ForcedChoiceJSON []byte       `db:"forced_choice"`
}

func (row itemRow) toDomain() (item.Item, error) {
	it := item.Item{
		ID:            core.ItemID(row.ID),
		ScaleID:       core.ScaleID(row.ScaleID),
		Text:          row.Text,
		Format:        item.Format(row.Format),
		Options:       []string(row.Options),
		CorrectAnswer: row.CorrectAnswer.String,
		IRT:           item.IRTParams{A: row.IRTA, B: row.IRTB, C: row.IRTC},
		Domain:        scale.Domain(row.Domain),
		Distortion:    row.Distortion,
		Active:        row.Active,
		Order:         row.ItemOrder,
		ReverseKeyed:  row.ReverseKeyed,
	}
	if len(row.ForcedChoiceJSON) > 0 {
		var pairing item.ForcedChoicePairing
		if err := unmarshalJSON(row.ForcedChoiceJSON, &pairing); err != nil {
			return item.Item{}, err
		}
		it.ForcedChoice = &pairing
	}
	return it, nil
}

const itemSelectColumns = `
	id, scale_id, text, format, options, correct_answer,
	irt_a, irt_b, irt_c, domain, distortion, active, item_order,
	reverse_keyed, forced_choice
`

func (r *ItemRepository) Get(ctx context.Context, id core.ItemID) (item.Item, error) {
	var row itemRow
	err := r.db.GetContext(ctx, &row, `SELECT `+itemSelectColumns+` FROM items WHERE id = $1`, id.String())
	if err != nil {
		return item.Item{}, translateNotFound(err, "item", id.String())
	}
	return row.toDomain()
}

func (r *ItemRepository) ListActiveByScale(ctx context.Context, scaleID core.ScaleID) ([]item.Item, error) {
	var rows []itemRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+itemSelectColumns+` FROM items WHERE scale_id = $1 AND active = true
	`, scaleID.String())
	if err != nil {
		return nil, err
	}
	return toItems(rows)
}

func (r *ItemRepository) ListActiveByDomain(ctx context.Context, domain scale.Domain) ([]item.Item, error) {
	var rows []itemRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+itemSelectColumns+` FROM items WHERE domain = $1 AND active = true
	`, string(domain))
	if err != nil {
		return nil, err
	}
	return toItems(rows)
}

func (r *ItemRepository) ListByIDs(ctx context.Context, ids []core.ItemID) (map[core.ItemID]item.Item, error) {
	idStrings := make(pq.StringArray, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}
	var rows []itemRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+itemSelectColumns+` FROM items WHERE id = ANY($1)
	`, idStrings)
	if err != nil {
		return nil, err
	}
	out := make(map[core.ItemID]item.Item, len(rows))
	for _, row := range rows {
		it, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out[it.ID] = it
	}
	return out, nil
}

func toItems(rows []itemRow) ([]item.Item, error) {
	out := make([]item.Item, len(rows))
	for i, row := range rows {
		it, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out[i] = it
	}
	return out, nil
}
