package ports

import "context"

// ReconcileJob is a ledger transaction that the store failed to record.
type ReconcileJob struct {
	RecordID      string
	TransactionID string
}

// ReconcileQueue accepts chain-written transactions for local re-application.
type ReconcileQueue interface {
	Enqueue(ctx context.Context, job ReconcileJob) error
}
