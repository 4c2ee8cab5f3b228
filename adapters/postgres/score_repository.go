package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"assesscore/domain/core"
	"assesscore/domain/score"
	"assesscore/ports"
)

// ScaleScoreRepository implements ports.ScaleScoreRepository for PostgreSQL.
type ScaleScoreRepository struct {
	db *sqlx.DB
}

// NewScaleScoreRepository creates a PostgreSQL scale score repository.
func NewScaleScoreRepository(db *sqlx.DB) *ScaleScoreRepository {
	return &ScaleScoreRepository{db: db}
}

var _ ports.ScaleScoreRepository = (*ScaleScoreRepository)(nil)

// SaveAll replaces every ScaleScore row for assessmentID within a single
// transaction, making a repeated CompleteAssessment call idempotent
// (§5/property 10): delete-then-insert yields the same stored set on a
// second call with the same computed scores.
func (r *ScaleScoreRepository) SaveAll(ctx context.Context, assessmentID core.AssessmentID, scores []score.ScaleScore) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scale_scores WHERE assessment_id = $1`, assessmentID.String()); err != nil {
		return err
	}

	for _, s := range scores {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO scale_scores (id, assessment_id, scale_id, raw, sten, percentile, theta, item_count, computed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, s.ID.String(), assessmentID.String(), s.ScaleID.String(), s.Raw, s.STEN, s.Percentile, s.Theta, s.ItemCount, s.ComputedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ScaleScoreRepository) ListByAssessment(ctx context.Context, assessmentID core.AssessmentID) ([]score.ScaleScore, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, scale_id, raw, sten, percentile, theta, item_count, computed_at
		FROM scale_scores WHERE assessment_id = $1
	`, assessmentID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []score.ScaleScore
	for rows.Next() {
		var (
			id, scaleID string
			theta       sql.NullFloat64
			s           score.ScaleScore
		)
		if err := rows.Scan(&id, &scaleID, &s.Raw, &s.STEN, &s.Percentile, &theta, &s.ItemCount, &s.ComputedAt); err != nil {
			return nil, err
		}
		s.ID = core.ScaleScoreID(id)
		s.ScaleID = core.ScaleID(scaleID)
		s.AssessmentID = assessmentID
		if theta.Valid {
			th := theta.Float64
			s.Theta = &th
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
