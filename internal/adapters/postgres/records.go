package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"threatledger/internal/domain"
)

const recordColumns = `id, input_kind, original_content, ai_detection_score, threat_entities, threat_graph,
        is_shared_on_chain, blockchain_transaction_id, created_at, updated_at`

func scanRecord(row pgx.Row) (domain.ThreatRecord, error) {
	var rec domain.ThreatRecord
	var kind string
	err := row.Scan(&rec.ID, &kind, &rec.OriginalContent, &rec.AIDetectionScore, &rec.ThreatEntities, &rec.ThreatGraph,
		&rec.IsSharedOnChain, &rec.BlockchainTransactionID, &rec.CreatedAt, &rec.UpdatedAt)
	rec.InputKind = domain.InputKind(kind)
	if rec.ThreatEntities == nil {
		rec.ThreatEntities = []domain.ThreatEntity{}
	}
	return rec, err
}

// Create inserts a validated draft; id and timestamps come from the database.
func (db *DB) Create(ctx context.Context, draft domain.Draft) (domain.ThreatRecord, error) {
	if err := draft.Validate(); err != nil {
		return domain.ThreatRecord{}, err
	}
	draft = draft.Normalized()
	rec, err := scanRecord(db.Pool.QueryRow(ctx, `
        INSERT INTO threat_records (input_kind, original_content, ai_detection_score, threat_entities, threat_graph)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+recordColumns,
		string(draft.InputKind), draft.OriginalContent, draft.AIDetectionScore, draft.ThreatEntities, draft.ThreatGraph))
	if err != nil {
		return domain.ThreatRecord{}, fmt.Errorf("%w: insert threat record: %w", domain.ErrPersistence, err)
	}
	return rec, nil
}

func (db *DB) GetByID(ctx context.Context, id string) (domain.ThreatRecord, error) {
	rec, err := scanRecord(db.Pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM threat_records WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ThreatRecord{}, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	if err != nil {
		return domain.ThreatRecord{}, fmt.Errorf("%w: load threat record: %w", domain.ErrPersistence, err)
	}
	return rec, nil
}

// MarkAttested flips both attestation fields in a single guarded UPDATE.
// When the guard rejects the write the current row is returned with applied=false.
func (db *DB) MarkAttested(ctx context.Context, id string, txID string) (domain.ThreatRecord, bool, error) {
	rec, err := scanRecord(db.Pool.QueryRow(ctx, `
        UPDATE threat_records
        SET is_shared_on_chain = true, blockchain_transaction_id = $2, updated_at = now()
        WHERE id = $1 AND NOT is_shared_on_chain
        RETURNING `+recordColumns, id, txID))
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.ThreatRecord{}, false, fmt.Errorf("%w: mark attested: %w", domain.ErrPersistence, err)
	}
	rec, err = db.GetByID(ctx, id)
	if err != nil {
		return domain.ThreatRecord{}, false, err
	}
	return rec, false, nil
}
