package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"threatledger/internal/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "threatledger",
		Short:         "Threat analysis records with one-time ledger attestation",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile == "" {
				return nil
			}
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config %s: %w", cfgFile, err)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "optional config file (yaml, toml or json)")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "text", "text or json")
	flags.String("store-driver", config.StorePostgres, "postgres or sqlite")
	flags.String("database-url", "", "postgres connection string")
	flags.String("sqlite-path", "threatledger.db", "sqlite database file")
	bindFlags(v, flags.Lookup, "log-level", "log-format", "store-driver", "database-url", "sqlite-path")

	root.AddCommand(newServeCmd(v), newMigrateCmd(v), newReconcileCmd(v))
	return root
}

// bindFlags maps each kebab-case flag onto its snake_case config key so the
// flag wins over the environment when set.
func bindFlags(v *viper.Viper, lookup func(string) *pflag.Flag, names ...string) {
	for _, name := range names {
		_ = v.BindPFlag(strings.ReplaceAll(name, "-", "_"), lookup(name))
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(h).With("service", "threatledger", "env", cfg.Env)
}
