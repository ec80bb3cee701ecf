package sqlite

import (
	"time"

	"threatledger/internal/domain"
)

type ThreatRecordModel struct {
	ID                      string                `gorm:"primaryKey"`
	InputKind               string                `gorm:"not null"`
	OriginalContent         string                `gorm:"not null"`
	AIDetectionScore        float64               `gorm:"column:ai_detection_score;not null"`
	ThreatEntities          []domain.ThreatEntity `gorm:"serializer:json;not null"`
	ThreatGraph             domain.ThreatGraph    `gorm:"serializer:json;not null"`
	IsSharedOnChain         bool                  `gorm:"not null;default:false"`
	BlockchainTransactionID *string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (ThreatRecordModel) TableName() string { return "threat_records" }

func (m ThreatRecordModel) toDomain() domain.ThreatRecord {
	entities := m.ThreatEntities
	if entities == nil {
		entities = []domain.ThreatEntity{}
	}
	return domain.ThreatRecord{
		ID:                      m.ID,
		InputKind:               domain.InputKind(m.InputKind),
		OriginalContent:         m.OriginalContent,
		AIDetectionScore:        m.AIDetectionScore,
		ThreatEntities:          entities,
		ThreatGraph:             m.ThreatGraph,
		IsSharedOnChain:         m.IsSharedOnChain,
		BlockchainTransactionID: m.BlockchainTransactionID,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}
