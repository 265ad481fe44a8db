package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"daflow/internal/api"
	"daflow/internal/config"
	"daflow/internal/logging"
	"daflow/internal/record"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	store *record.Store
)

var rootCmd = &cobra.Command{
	Use:   "daflow",
	Short: "daflow serves review-pipeline analytics for data access requests",
	Long: `An analytics service for data-access-request tracking: it holds the current
request table, derives cycle-time, overdue and per-stage metrics from it, and
serves plain aggregates over HTTP for a dashboard to render.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		store = record.NewStore()
		if err := store.Restore(cfg.SnapshotPath); err != nil {
			log.Warn().Err(err).Str("path", cfg.SnapshotPath).Msg("Failed to restore record snapshot")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("daflow starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	handler := api.NewHandler(store, cfg.Analytics)
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewRouter(handler),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.ListenAddr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}

		if err := store.Snapshot(cfg.SnapshotPath); err != nil {
			log.Warn().Err(err).Str("path", cfg.SnapshotPath).Msg("Failed to save record snapshot")
		}
		return nil
	})

	return g.Wait()
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
