package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"threatledger/internal/domain"
	"threatledger/internal/ports"
)

var (
	ErrQueueFull = errors.New("reconcile queue full")
	// ErrConflict means the record already holds a different transaction id.
	ErrConflict = errors.New("record attested with a different transaction")
)

// Queue buffers jobs between the attestation coordinator and the workers.
type Queue struct {
	jobs chan ports.ReconcileJob
}

func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{jobs: make(chan ports.ReconcileJob, capacity)}
}

// Enqueue never blocks; a full queue is reported so the caller can log the job.
func (q *Queue) Enqueue(ctx context.Context, job ports.ReconcileJob) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Apply records a ledger transaction on its record. It succeeds when the
// conditional update took effect or the record already holds the same
// transaction.
func Apply(ctx context.Context, repo ports.RecordRepository, job ports.ReconcileJob) error {
	rec, applied, err := repo.MarkAttested(ctx, job.RecordID, job.TransactionID)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	if rec.BlockchainTransactionID != nil && *rec.BlockchainTransactionID == job.TransactionID {
		return nil
	}
	return fmt.Errorf("%w: record %s", ErrConflict, job.RecordID)
}

func terminal(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, domain.ErrRecordNotFound)
}

// Run starts a dispatcher and worker goroutines that apply queued jobs.
// Failed jobs go back to the dispatcher and are retried on the next tick.
func Run(ctx context.Context, repo ports.RecordRepository, q *Queue, concurrency int, interval time.Duration, logger *slog.Logger) {
	if concurrency < 1 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}
	jobsCh := make(chan ports.ReconcileJob, concurrency)
	retryCh := make(chan ports.ReconcileJob, concurrency)

	// dispatcher loop
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var pending []ports.ReconcileJob
		for {
			select {
			case <-ctx.Done():
				close(jobsCh)
				if len(pending) > 0 {
					logger.Error("reconciler stopped with pending jobs", "pending", len(pending))
				}
				return
			case job := <-q.jobs:
				pending = append(pending, job)
			case job := <-retryCh:
				pending = append(pending, job)
			case <-ticker.C:
			dispatch:
				for len(pending) > 0 {
					select {
					case jobsCh <- pending[0]:
						pending = pending[1:]
					default:
						break dispatch
					}
				}
			}
		}
	}()

	// workers
	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			for job := range jobsCh {
				err := Apply(ctx, repo, job)
				switch {
				case err == nil:
					logger.Info("ledger transaction reconciled", "worker", idx, "record", job.RecordID, "tx", job.TransactionID)
				case terminal(err):
					logger.Error("reconcile dropped", "worker", idx, "record", job.RecordID, "tx", job.TransactionID, "error", err)
				default:
					logger.Warn("reconcile failed, will retry", "worker", idx, "record", job.RecordID, "tx", job.TransactionID, "error", err)
					select {
					case retryCh <- job:
					case <-ctx.Done():
					}
				}
			}
		}(i)
	}
}
