// Package postgres implements every ports.* repository interface over
// PostgreSQL via sqlx and lib/pq.
package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"assesscore/domain/candidate"
	"assesscore/domain/core"
	"assesscore/ports"
)

// CandidateRepository implements ports.CandidateRepository for PostgreSQL.
type CandidateRepository struct {
	db *sqlx.DB
}

// NewCandidateRepository creates a PostgreSQL candidate repository.
func NewCandidateRepository(db *sqlx.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

var _ ports.CandidateRepository = (*CandidateRepository)(nil)

type candidateRow struct {
	ID         string `db:"id"`
	Attributes []byte `db:"attributes"`
}

// Create inserts a candidate row, storing Attributes as JSONB.
func (r *CandidateRepository) Create(ctx context.Context, c candidate.Candidate) error {
	attrs, err := marshalJSON(c.Attributes)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO candidates (id, attributes)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET attributes = EXCLUDED.attributes
	`, c.ID.String(), attrs)
	return err
}

// Get fetches a candidate by id.
func (r *CandidateRepository) Get(ctx context.Context, id core.CandidateID) (candidate.Candidate, error) {
	var row candidateRow
	err := r.db.GetContext(ctx, &row, `SELECT id, attributes FROM candidates WHERE id = $1`, id.String())
	if err != nil {
		return candidate.Candidate{}, translateNotFound(err, "candidate", id.String())
	}

	var attrs map[string]interface{}
	if err := unmarshalJSON(row.Attributes, &attrs); err != nil {
		return candidate.Candidate{}, err
	}
	return candidate.Candidate{ID: core.CandidateID(row.ID), Attributes: attrs}, nil
}
