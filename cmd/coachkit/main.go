// Package main provides the coachkit command-line driver.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/internal/adapters/persistence"
	"github.com/coachkit/coachkit/internal/app"
	"github.com/coachkit/coachkit/internal/config"
	"github.com/coachkit/coachkit/internal/domain/model"
	"github.com/coachkit/coachkit/internal/domain/planner"
	"github.com/coachkit/coachkit/internal/domain/rating"
	"github.com/coachkit/coachkit/pkg/logger"
	"github.com/coachkit/coachkit/pkg/metrics"
)

var (
	svc         *app.Service
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "coachkit",
	Short: "Adaptive practice coach",
	Long: "coachkit tracks per-skill proficiency ratings across a catalog of " +
		"training modules and composes personalized practice sessions from " +
		"weakness, recency and fatigue signals.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return startService(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if svc != nil {
			svc.Stop()
		}
	},
}

func startService(ctx context.Context) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level, falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	catalog, err := model.NewCatalog(cfg.Modules, cfg.Skills)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}

	opts := []app.Option{
		app.WithCatalog(catalog),
		app.WithRatingParams(rating.Params{KMax: cfg.KMax, KMin: cfg.KMin, KDecay: cfg.KDecay}),
		app.WithTuning(planner.Tuning{
			DefaultDuration:  cfg.DefaultDuration,
			FocusShare:       cfg.FocusShare,
			FatigueThreshold: cfg.FatigueThreshold,
			RecentWindow:     time.Duration(cfg.RecentWindowDays) * 24 * time.Hour,
			SessionsPerDay:   cfg.SessionsPerDay,
			TrialsPerDay:     cfg.TrialsPerDay,
		}),
	}
	if cfg.StateDir != "" {
		opts = append(opts, app.WithPersistenceStore(persistence.NewFileStore(cfg.StateDir)))
	}

	svc = app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	if metricsAddr != "" {
		go serveMetrics(ctx, metricsAddr)
	}
	return nil
}

// serveMetrics exposes the Prometheus registry. Opt-in via --metrics-addr;
// the trainer core itself never listens on anything.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	logger.Get().Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Get().Warn(ctx, "metrics listener failed", logger.Error(err))
	}
}

func main() {
	// Load .env if present; absence is fine.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "",
		"optional address to expose Prometheus metrics on (e.g. :9090)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
