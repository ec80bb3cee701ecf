package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"threatledger/internal/config"
	"threatledger/internal/domain"
	"threatledger/internal/ports"
	"threatledger/internal/workers/reconciler"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _ := config.FromViper(v)
			if err := cfg.ValidateStore(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger := newLogger(cfg)
			ctx := cmdContext(cmd)
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.close()
			if err := st.migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrations applied", "store", cfg.StoreDriver)
			return nil
		},
	}
}

// newReconcileCmd records a ledger transaction that was written on chain but
// never saved locally. It never calls the ledger.
func newReconcileCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <record-id> <transaction-hash>",
		Short: "Record an already written ledger transaction on its threat record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.FromViper(v)
			if err := cfg.ValidateStore(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			id, err := domain.ParseRecordID(args[0])
			if err != nil {
				return err
			}
			txID := strings.TrimSpace(args[1])
			if txID == "" {
				return fmt.Errorf("%w: empty transaction hash", domain.ErrValidation)
			}

			logger := newLogger(cfg)
			ctx := cmdContext(cmd)
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.close()
			if err := reconciler.Apply(ctx, st.records, ports.ReconcileJob{RecordID: id, TransactionID: txID}); err != nil {
				return err
			}
			logger.Info("ledger transaction reconciled", "record", id, "tx", txID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", id, txID)
			return nil
		},
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
