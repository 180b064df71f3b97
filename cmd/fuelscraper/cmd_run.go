package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/andygrunwald/fuelprices-dk/internal/database"
	"github.com/andygrunwald/fuelprices-dk/internal/http"
	"github.com/andygrunwald/fuelprices-dk/internal/metrics"
	"github.com/andygrunwald/fuelprices-dk/internal/scheduler"
	"github.com/andygrunwald/fuelprices-dk/internal/scraper"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the continuous scraper service",
		Long:  "Starts the fuel price scraper with an internal scheduler that refreshes all companies on an interval.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			kinds, err := cfg.ProductKinds()
			if err != nil {
				return err
			}

			interval := time.Duration(cfg.RefreshInterval)
			logger.Info().
				Str("version", Version).
				Str("commit", Commit).
				Str("buildDate", BuildDate).
				Str("httpAddr", cfg.HTTPAddr).
				Dur("refreshInterval", interval).
				Strs("companies", cfg.Companies).
				Strs("products", cfg.Products).
				Msg("starting fuel price scraper")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			s := scraper.New(logger, companyOptions(logger))
			s.Load(cfg.Companies, kinds)
			s.SetPrometheusMetrics(metrics.New(prometheus.DefaultRegisterer))

			var dbStatus http.DatabaseStatus
			if cfg.PostgresDSN != "" {
				db, err := openDatabase(ctx, logger)
				if err != nil {
					return err
				}
				defer db.Close()

				s.SetStore(db)
				dbStatus = db
			}

			// Create scheduler
			sched := scheduler.New(s, interval, logger)

			// Create HTTP server
			httpServer := http.NewServer(cfg.HTTPAddr, s, sched, dbStatus, prometheus.DefaultGatherer, logger)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			// Start HTTP server in goroutine
			go func() {
				if err := httpServer.Start(); err != nil {
					logger.Error().Err(err).Msg("HTTP server error")
					cancel()
				}
			}()

			// Start scheduler in goroutine
			go func() {
				if err := sched.Start(ctx); err != nil && err != context.Canceled {
					logger.Error().Err(err).Msg("scheduler error")
					cancel()
				}
			}()

			// Wait for signal
			select {
			case sig := <-sigCh:
				logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
				cancel()
			case <-ctx.Done():
			}

			// Graceful shutdown
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("HTTP server shutdown error")
			}

			logger.Info().Msg("shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.HTTPAddr, "http-addr", flags.HTTPAddr, "HTTP server address for /metrics, /status, /prices")
	cmd.Flags().DurationVar((*time.Duration)(&flags.RefreshInterval), "refresh-interval", time.Duration(flags.RefreshInterval), "Time between two refreshes")

	return cmd
}

// openDatabase connects to the price export database and creates its table.
func openDatabase(ctx context.Context, logger zerolog.Logger) (*database.DB, error) {
	db, err := database.New(cfg.PostgresDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
