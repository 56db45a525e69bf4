package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/cache"
	"github.com/andresuchdata/autoreplenish/internal/config"
	"github.com/andresuchdata/autoreplenish/internal/engine"
	"github.com/andresuchdata/autoreplenish/internal/repository/postgres"
	"github.com/andresuchdata/autoreplenish/internal/service"
	"github.com/andresuchdata/autoreplenish/pkg/logger"
	"github.com/urfave/cli/v2"
)

func newEveryFlag() *cli.DurationFlag {
	return &cli.DurationFlag{
		Name:    "every",
		Usage:   "Re-run on this interval until interrupted (0 runs once)",
		Value:   0,
		EnvVars: []string{"ENGINE_RUN_EVERY"},
	}
}

// deps bundles everything a command needs against the live store.
type deps struct {
	db  *postgres.DB
	cfg *config.Config
}

func openDeps() (*deps, error) {
	cfg := config.Load()

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &deps{db: db, cfg: cfg}, nil
}

func (d *deps) close() {
	if err := d.db.Close(); err != nil {
		logger.Log.Error().Err(err).Msg("failed to close database")
	}
}

// runPass executes fn once, or on a ticker when --every is set. A SIGINT or
// SIGTERM stops the loop after the in-flight pass finishes.
func runPass(c *cli.Context, fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := fn(ctx); err != nil {
		return err
	}

	every := c.Duration("every")
	if every <= 0 {
		return nil
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("shutting down")
			return nil
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				logger.Log.Error().Err(err).Msg("pass failed, will retry on next tick")
			}
		}
	}
}

func runForecast(c *cli.Context) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.close()

	accuracy, err := cache.NewAccuracyCache(d.cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("accuracy cache unavailable, continuing without it")
		accuracy = cache.NewNoopAccuracyCache()
	}

	svc := service.NewForecastService(
		postgres.NewSalesRepository(d.db),
		postgres.NewForecastRepository(d.db),
		accuracy,
		d.cfg.Engine,
	)

	return runPass(c, func(ctx context.Context) error {
		summary, err := svc.Refresh(ctx)
		if err != nil {
			return err
		}
		for _, msg := range summary.Errors {
			logger.Log.Warn().Str("error", msg).Msg("pair refresh failed")
		}
		return nil
	})
}

func runSuggest(c *cli.Context) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.close()

	eng := engine.New(postgres.NewPlanningRepository(d.db), d.cfg.Engine)

	return runPass(c, func(ctx context.Context) error {
		summary, err := eng.Run(ctx)
		if err != nil {
			return err
		}
		logger.Log.Info().
			Int("transfers", summary.TransferSuggestions).
			Int("purchase_orders", summary.POSuggestions).
			Int("inserted", summary.Inserted).
			Int("errors", len(summary.Errors)).
			Dur("elapsed", summary.CompletedAt.Sub(summary.StartedAt)).
			Msg("suggestion run completed")
		for _, msg := range summary.Errors {
			logger.Log.Warn().Str("error", msg).Msg("suggestion run error")
		}
		return nil
	})
}

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.App.LogLevel)

	app := &cli.App{
		Name:  "autoreplenish",
		Usage: "Demand forecasting and replenishment suggestion engine",
		Commands: []*cli.Command{
			{
				Name:   "forecast",
				Usage:  "Recompute daily sales-rate forecasts from sales history",
				Flags:  []cli.Flag{newEveryFlag()},
				Action: runForecast,
			},
			{
				Name:   "suggest",
				Usage:  "Generate replenishment suggestions from current forecasts and stock",
				Flags:  []cli.Flag{newEveryFlag()},
				Action: runSuggest,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}
