package attestation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"threatledger/internal/domain"
	"threatledger/internal/ports"
)

var tracer = otel.Tracer("threatledger/internal/services/attestation")

// Service moves a record from Unattested to Attested exactly once.
type Service struct {
	records   ports.RecordRepository
	ledger    ports.Ledger
	reconcile ports.ReconcileQueue
	logger    *slog.Logger
}

// New wires the coordinator. reconcile may be nil, in which case unrecorded
// transactions are only reported to the caller and the log.
func New(records ports.RecordRepository, ledger ports.Ledger, reconcile ports.ReconcileQueue, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{records: records, ledger: ledger, reconcile: reconcile, logger: logger}
}

func (s *Service) Attest(ctx context.Context, rawID string) (txID string, err error) {
	ctx, span := tracer.Start(ctx, "attestation.attest")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "attestation failed")
		}
		span.End()
	}()

	id, err := domain.ParseRecordID(rawID)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("record.id", id))

	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrPersistence) {
			return "", err
		}
		return "", fmt.Errorf("%w: load record %s: %w", domain.ErrPersistence, id, err)
	}
	if rec.IsSharedOnChain {
		return "", fmt.Errorf("%w: record %s", domain.ErrAlreadyAttested, id)
	}

	sub, err := BuildSubmission(rec)
	if err != nil {
		return "", err
	}

	txID, err = s.ledger.Submit(ctx, sub)
	if err != nil {
		s.logger.WarnContext(ctx, "ledger submission failed", "record", id, "error", err)
		return "", fmt.Errorf("%w: %w", domain.ErrAttestationUnavailable, err)
	}
	txID = strings.TrimSpace(txID)
	if txID == "" {
		return "", fmt.Errorf("%w: ledger returned no transaction id", domain.ErrAttestationUnavailable)
	}
	span.SetAttributes(attribute.String("ledger.tx", txID))

	// The chain write is irreversible from here on; finish the local write
	// even if the caller has gone away.
	persistCtx := context.WithoutCancel(ctx)
	updated, applied, err := s.records.MarkAttested(persistCtx, id, txID)
	if err != nil {
		perr := &domain.AttestationPersistenceError{RecordID: id, TransactionID: txID, Err: err}
		s.logger.ErrorContext(ctx, "ledger transaction not recorded", "record", id, "tx", txID, "error", err)
		if s.reconcile != nil {
			if qerr := s.reconcile.Enqueue(persistCtx, ports.ReconcileJob{RecordID: id, TransactionID: txID}); qerr != nil {
				s.logger.ErrorContext(ctx, "reconcile enqueue failed", "record", id, "tx", txID, "error", qerr)
			}
		}
		return "", perr
	}
	if !applied {
		existing := ""
		if updated.BlockchainTransactionID != nil {
			existing = *updated.BlockchainTransactionID
		}
		s.logger.WarnContext(ctx, "record attested concurrently, ledger transaction is a duplicate",
			"record", id, "tx", txID, "recorded_tx", existing)
		return "", fmt.Errorf("%w: record %s recorded transaction %s", domain.ErrAlreadyAttested, id, existing)
	}

	s.logger.InfoContext(ctx, "record attested", "record", id, "tx", txID)
	return txID, nil
}
