package ports

import (
	"context"

	"threatledger/internal/domain"
)

// AnalysisInput is either raw text or a spooled local upload.
type AnalysisInput struct {
	Kind      domain.InputKind
	Content   string
	LocalPath string
}

// Analyzer runs the ingest pipeline and persists the outcome.
type Analyzer interface {
	Analyze(ctx context.Context, in AnalysisInput) (domain.Draft, error)
	Ingest(ctx context.Context, in AnalysisInput) (domain.ThreatRecord, error)
	Get(ctx context.Context, id string) (domain.ThreatRecord, error)
}

// Attester performs the one-time ledger attestation of a record.
type Attester interface {
	Attest(ctx context.Context, recordID string) (txID string, err error)
}
