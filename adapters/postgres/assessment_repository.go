package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/ports"
)

// AssessmentRepository implements ports.AssessmentRepository for
// PostgreSQL. WithAssessmentLock serializes per-assessment operations
// (§5) via pg_advisory_xact_lock inside an explicit transaction, held for
// the duration of the caller's fn and released automatically on commit.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository creates a PostgreSQL assessment repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

var _ ports.AssessmentRepository = (*AssessmentRepository)(nil)

type assessmentRow struct {
	ID             string         `db:"id"`
	CandidateID    string         `db:"candidate_id"`
	Type           string         `db:"type"`
	Status         string         `db:"status"`
	CurrentSection string         `db:"current_section"`
	CurrentItemIdx int            `db:"current_item_idx"`
	StartedAt      sql.NullTime   `db:"started_at"`
	CompletedAt    sql.NullTime   `db:"completed_at"`
	ExpiresAt      sql.NullTime   `db:"expires_at"`
}

func (row assessmentRow) toDomain() assessment.Assessment {
	a := assessment.Assessment{
		ID:             core.AssessmentID(row.ID),
		CandidateID:    core.CandidateID(row.CandidateID),
		Type:           assessment.Type(row.Type),
		Status:         assessment.Status(row.Status),
		CurrentSection: assessment.Section(row.CurrentSection),
		CurrentItemIdx: row.CurrentItemIdx,
	}
	if row.StartedAt.Valid {
		t := row.StartedAt.Time
		a.StartedAt = &t
	}
	if row.CompletedAt.Valid {
		t := row.CompletedAt.Time
		a.CompletedAt = &t
	}
	if row.ExpiresAt.Valid {
		a.ExpiresAt = row.ExpiresAt.Time
	}
	return a
}

func (r *AssessmentRepository) Create(ctx context.Context, a assessment.Assessment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assessments (id, candidate_id, type, status, current_section, current_item_idx, started_at, completed_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID.String(), a.CandidateID.String(), a.Type, a.Status, a.CurrentSection, a.CurrentItemIdx, a.StartedAt, a.CompletedAt, a.ExpiresAt)
	return err
}

func (r *AssessmentRepository) Get(ctx context.Context, id core.AssessmentID) (assessment.Assessment, error) {
	var row assessmentRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, candidate_id, type, status, current_section, current_item_idx, started_at, completed_at, expires_at
		FROM assessments WHERE id = $1
	`, id.String())
	if err != nil {
		return assessment.Assessment{}, translateNotFound(err, "assessment", id.String())
	}
	return row.toDomain(), nil
}

func (r *AssessmentRepository) Update(ctx context.Context, a assessment.Assessment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE assessments
		SET status = $2, current_section = $3, current_item_idx = $4, started_at = $5, completed_at = $6
		WHERE id = $1
	`, a.ID.String(), a.Status, a.CurrentSection, a.CurrentItemIdx, a.StartedAt, a.CompletedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.NewNotFoundError("assessment", a.ID.String())
	}
	return nil
}

func (r *AssessmentRepository) AppendResponse(ctx context.Context, resp assessment.Response) error {
	value, err := marshalJSON(responseValueToJSON(resp.Value))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO responses (id, assessment_id, item_id, value, response_time_ms, is_correct, theta_snapshot, responded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, resp.ID.String(), resp.AssessmentID.String(), resp.ItemID.String(), value,
		resp.ResponseTime.Milliseconds(), resp.IsCorrect, resp.ThetaSnapshot, resp.RespondedAt)
	return err
}

func (r *AssessmentRepository) ListResponses(ctx context.Context, assessmentID core.AssessmentID) ([]assessment.Response, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, value, response_time_ms, is_correct, theta_snapshot, responded_at
		FROM responses WHERE assessment_id = $1 ORDER BY responded_at ASC
	`, assessmentID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []assessment.Response
	for rows.Next() {
		var (
			id, itemID     string
			valueJSON      []byte
			responseMs     int64
			isCorrect      sql.NullBool
			thetaSnapshot  sql.NullFloat64
			respondedAt    sql.NullTime
		)
		if err := rows.Scan(&id, &itemID, &valueJSON, &responseMs, &isCorrect, &thetaSnapshot, &respondedAt); err != nil {
			return nil, err
		}
		resp := assessment.Response{
			ID:           core.ResponseID(id),
			AssessmentID: assessmentID,
			ItemID:       core.ItemID(itemID),
			ResponseTime: timeMillis(responseMs),
			RespondedAt:  respondedAt.Time,
		}
		var raw jsonResponseValue
		if err := unmarshalJSON(valueJSON, &raw); err != nil {
			return nil, err
		}
		resp.Value = raw.toDomain()
		if isCorrect.Valid {
			b := isCorrect.Bool
			resp.IsCorrect = &b
		}
		if thetaSnapshot.Valid {
			th := thetaSnapshot.Float64
			resp.ThetaSnapshot = &th
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

func (r *AssessmentRepository) HasResponse(ctx context.Context, assessmentID core.AssessmentID, itemID core.ItemID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM responses WHERE assessment_id = $1 AND item_id = $2)
	`, assessmentID.String(), itemID.String())
	return exists, err
}

// WithAssessmentLock runs fn inside a transaction holding a PostgreSQL
// advisory lock keyed by the assessment id, so concurrent respond/next/
// complete calls on the same assessment serialize at the database (§5).
func (r *AssessmentRepository) WithAssessmentLock(ctx context.Context, assessmentID core.AssessmentID, fn func(ctx context.Context) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, assessmentID.String()); err != nil {
		return err
	}

	if err := fn(ctx); err != nil {
		return err
	}
	return tx.Commit()
}

// jsonResponseValue is the wire shape persisted for the heterogeneous
// ResponseValue tagged union (§9 "dynamic typing in responses").
type jsonResponseValue struct {
	Kind  string `json:"kind"`
	Int   int    `json:"int,omitempty"`
	Str   string `json:"str,omitempty"`
	Bool  bool   `json:"bool,omitempty"`
}

func (v jsonResponseValue) toDomain() assessment.ResponseValue {
	switch v.Kind {
	case "likert":
		return assessment.LikertResponse{Value: v.Int}
	case "multiple_choice":
		return assessment.MultipleChoiceResponse{Value: v.Str}
	case "forced_choice":
		return assessment.ForcedChoiceResponse{Value: v.Str}
	case "binary":
		return assessment.BinaryResponse{Value: v.Bool}
	default:
		return nil
	}
}

func responseValueToJSON(v assessment.ResponseValue) jsonResponseValue {
	switch rv := v.(type) {
	case assessment.LikertResponse:
		return jsonResponseValue{Kind: "likert", Int: rv.Value}
	case assessment.MultipleChoiceResponse:
		return jsonResponseValue{Kind: "multiple_choice", Str: rv.Value}
	case assessment.ForcedChoiceResponse:
		return jsonResponseValue{Kind: "forced_choice", Str: rv.Value}
	case assessment.BinaryResponse:
		return jsonResponseValue{Kind: "binary", Bool: rv.Value}
	default:
		return jsonResponseValue{}
	}
}

func timeMillis(ms int64) time.Duration { return time.Duration(ms) * time.Millisecond }
