package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"threatledger/internal/adapters/contentstore"
	httpadapter "threatledger/internal/adapters/http"
	"threatledger/internal/adapters/ledger"
	"threatledger/internal/adapters/mediaanalysis"
	"threatledger/internal/adapters/textanalysis"
	"threatledger/internal/config"
	"threatledger/internal/services/analysis"
	"threatledger/internal/services/attestation"
	"threatledger/internal/telemetry"
	"threatledger/internal/workers/reconciler"
)

const (
	reconcileQueueSize = 256
	shutdownTimeout    = 15 * time.Second
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reconcile workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromViper(v)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return serve(cmdContext(cmd), cfg, newLogger(cfg))
		},
	}
	cmd.Flags().String("listen-addr", ":8080", "HTTP listen address")
	cmd.Flags().Int("max-connections", 512, "concurrent connection limit, 0 for none")
	bindFlags(v, cmd.Flags().Lookup, "listen-addr", "max-connections")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, "threatledger", version, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("tracer shutdown", "error", err)
		}
	}()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	if cfg.StoreDriver == config.StoreSQLite {
		if err := st.migrate(ctx); err != nil {
			return fmt.Errorf("sqlite migrations: %w", err)
		}
	}

	text, err := textanalysis.NewClient(textanalysis.Config{URL: cfg.TextAnalysisURL, Timeout: cfg.TextAnalysisTimeout, Logger: logger})
	if err != nil {
		return err
	}
	media, err := mediaanalysis.NewClient(mediaanalysis.Config{
		URL:       cfg.MediaAnalysisURL,
		APIUser:   cfg.SightengineAPIUser,
		APISecret: cfg.SightengineAPISecret,
		Timeout:   cfg.MediaAnalysisTimeout,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	ledgerClient, err := ledger.NewClient(ledger.Config{URL: cfg.LedgerURL, Logger: logger})
	if err != nil {
		return err
	}
	s3Client, err := contentstore.NewS3Client(ctx, cfg.ContentRegion, cfg.ContentEndpoint)
	if err != nil {
		return err
	}
	content, err := contentstore.NewS3Store(s3Client, contentstore.Config{
		Bucket:        cfg.ContentBucket,
		Region:        cfg.ContentRegion,
		PublicBaseURL: cfg.ContentPublicBaseURL,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	queue := reconciler.NewQueue(reconcileQueueSize)
	analyzer := analysis.New(st.records, text, media, content, logger)
	attester := attestation.New(st.records, ledgerClient, queue, logger)
	srv := httpadapter.New(analyzer, attester, httpadapter.Options{
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger,
	})

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return err
	}
	if cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxConnections)
	}
	httpServer := &http.Server{
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)
	reconciler.Run(gctx, st.records, queue, cfg.ReconcileWorkers, cfg.ReconcileInterval, logger)
	g.Go(func() error {
		logger.Info("listening", "addr", ln.Addr().String(), "store", cfg.StoreDriver)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
