package attestation

import (
	"encoding/json"
	"fmt"

	"threatledger/internal/domain"
	"threatledger/internal/ports"
)

// The ledger contract takes string arguments only. Entities cross that
// boundary as a JSON array encoded into a single string; DecodeEntities is
// the exact inverse.

// EncodeEntities renders the entity list as the ledger's entities argument.
// A nil list encodes as "[]".
func EncodeEntities(entities []domain.ThreatEntity) (string, error) {
	if entities == nil {
		entities = []domain.ThreatEntity{}
	}
	b, err := json.Marshal(entities)
	if err != nil {
		return "", fmt.Errorf("encode entities: %w", err)
	}
	return string(b), nil
}

// DecodeEntities parses an entities argument produced by EncodeEntities.
func DecodeEntities(s string) ([]domain.ThreatEntity, error) {
	var out []domain.ThreatEntity
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}
	if out == nil {
		out = []domain.ThreatEntity{}
	}
	return out, nil
}

// BuildSubmission assembles the ledger arguments for a record.
func BuildSubmission(rec domain.ThreatRecord) (ports.LedgerSubmission, error) {
	entities, err := EncodeEntities(rec.ThreatEntities)
	if err != nil {
		return ports.LedgerSubmission{}, err
	}
	return ports.LedgerSubmission{Text: rec.OriginalContent, Entities: entities}, nil
}
