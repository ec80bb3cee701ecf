package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"threatledger/internal/domain"
)

// RecordRepository is the single-node store backed by an embedded database.
type RecordRepository struct {
	db *gorm.DB
}

// Open uses the pure-Go driver and a single connection so writers never
// contend for the database lock.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) Create(ctx context.Context, draft domain.Draft) (domain.ThreatRecord, error) {
	if err := draft.Validate(); err != nil {
		return domain.ThreatRecord{}, err
	}
	draft = draft.Normalized()
	m := ThreatRecordModel{
		ID:               domain.NewRecordID(),
		InputKind:        string(draft.InputKind),
		OriginalContent:  draft.OriginalContent,
		AIDetectionScore: draft.AIDetectionScore,
		ThreatEntities:   draft.ThreatEntities,
		ThreatGraph:      draft.ThreatGraph,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.ThreatRecord{}, fmt.Errorf("%w: insert threat record: %w", domain.ErrPersistence, err)
	}
	return m.toDomain(), nil
}

func (r *RecordRepository) GetByID(ctx context.Context, id string) (domain.ThreatRecord, error) {
	var m ThreatRecordModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ThreatRecord{}, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	if err != nil {
		return domain.ThreatRecord{}, fmt.Errorf("%w: load threat record: %w", domain.ErrPersistence, err)
	}
	return m.toDomain(), nil
}

// MarkAttested issues one conditional UPDATE and reloads the row in the same
// transaction, so a failed reload rolls the transition back. RowsAffected
// tells whether the transition happened.
func (r *RecordRepository) MarkAttested(ctx context.Context, id string, txID string) (domain.ThreatRecord, bool, error) {
	var (
		m       ThreatRecordModel
		applied bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ThreatRecordModel{}).
			Where("id = ? AND is_shared_on_chain = ?", id, false).
			Updates(map[string]any{
				"is_shared_on_chain":        true,
				"blockchain_transaction_id": txID,
				"updated_at":                time.Now().UTC(),
			})
		if res.Error != nil {
			return fmt.Errorf("%w: mark attested: %w", domain.ErrPersistence, res.Error)
		}
		applied = res.RowsAffected == 1
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
			}
			return fmt.Errorf("%w: reload threat record: %w", domain.ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		return domain.ThreatRecord{}, false, err
	}
	return m.toDomain(), applied, nil
}
