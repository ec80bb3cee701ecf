package ports

import (
	"context"

	"threatledger/internal/domain"
)

// RecordRepository persists threat records. Implementations assign the id
// and timestamps on Create and return domain.ErrRecordNotFound for unknown ids.
type RecordRepository interface {
	Create(ctx context.Context, draft domain.Draft) (domain.ThreatRecord, error)
	GetByID(ctx context.Context, id string) (domain.ThreatRecord, error)
	// MarkAttested sets is_shared_on_chain and the transaction id in one
	// conditional write that only applies to an unattested record. applied is
	// false when the record was already attested; rec is the current state either way.
	MarkAttested(ctx context.Context, id string, txID string) (rec domain.ThreatRecord, applied bool, err error)
}
