package main

import (
	"context"
	"fmt"

	pg "threatledger/internal/adapters/postgres"
	"threatledger/internal/adapters/sqlite"
	"threatledger/internal/config"
	"threatledger/internal/ports"
)

type store struct {
	records ports.RecordRepository
	migrate func(context.Context) error
	close   func()
}

func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := pg.Connect(ctx, cfg.DatabaseURL, 0)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		return &store{records: db, migrate: db.RunMigrations, close: db.Close}, nil
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite open %s: %w", cfg.SQLitePath, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &store{
			records: sqlite.NewRecordRepository(db),
			migrate: func(ctx context.Context) error { return sqlite.RunMigrations(ctx, db) },
			close:   func() { _ = sqlDB.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
