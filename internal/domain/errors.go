package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation             = errors.New("validation error")
	ErrUpstreamUnavailable    = errors.New("upstream unavailable")
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrPersistence            = errors.New("persistence error")
	ErrInvalidIdentifier      = errors.New("invalid identifier")
	ErrRecordNotFound         = errors.New("record not found")
	ErrAlreadyAttested        = errors.New("already attested")
	ErrAttestationUnavailable = errors.New("attestation unavailable")
	ErrAttestationPersistence = errors.New("attestation persistence error")
)

func invalidDraft(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrPersistence, ErrValidation, fmt.Sprintf(format, args...))
}

// AttestationPersistenceError is returned when the ledger accepted a
// submission but the local record could not be marked. The transaction id
// is irreversible on chain and must be reconciled.
type AttestationPersistenceError struct {
	RecordID      string
	TransactionID string
	Err           error
}

func (e *AttestationPersistenceError) Error() string {
	return fmt.Sprintf("record %s: ledger transaction %s not recorded: %v", e.RecordID, e.TransactionID, e.Err)
}

func (e *AttestationPersistenceError) Is(target error) bool { return target == ErrAttestationPersistence }

func (e *AttestationPersistenceError) Unwrap() error { return e.Err }
