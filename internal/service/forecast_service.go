// internal/service/forecast_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/cache"
	"github.com/andresuchdata/autoreplenish/internal/config"
	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/andresuchdata/autoreplenish/internal/forecast"
	"github.com/andresuchdata/autoreplenish/internal/repository"
	"github.com/andresuchdata/autoreplenish/pkg/logger"
	"github.com/rs/zerolog"
)

// historyWindowYears bounds how far back the refresh reads sales history.
// Two years covers the seasonality minimum with a full spare cycle.
const historyWindowYears = 2

// ForecastService recomputes the stored daily-rate forecasts from sales
// history: recency-weighted rate, seasonal profile, trend, and a
// walk-forward backtest that grades confidence.
type ForecastService struct {
	sales     repository.SalesRepository
	forecasts repository.ForecastRepository
	accuracy  cache.AccuracyCache
	cfg       config.EngineConfig
	now       func() time.Time
	log       zerolog.Logger
}

func NewForecastService(sales repository.SalesRepository, forecasts repository.ForecastRepository, accuracy cache.AccuracyCache, cfg config.EngineConfig) *ForecastService {
	return &ForecastService{
		sales:     sales,
		forecasts: forecasts,
		accuracy:  accuracy,
		cfg:       cfg,
		now:       time.Now,
		log:       logger.With("forecast_service"),
	}
}

// RefreshSummary reports one forecast refresh pass
type RefreshSummary struct {
	Pairs    int      `json:"pairs"`
	Enabled  int      `json:"enabled"`
	Disabled int      `json:"disabled"`
	Errors   []string `json:"errors"`
}

// Refresh recomputes and upserts the forecast for every product/location
// pair with sales activity. Per-pair failures are collected and do not stop
// the pass; only the initial pair listing is fatal.
func (s *ForecastService) Refresh(ctx context.Context) (*RefreshSummary, error) {
	pairs, err := s.sales.GetActiveProductLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list product locations: %w", err)
	}

	summary := &RefreshSummary{Pairs: len(pairs)}
	since := s.now().AddDate(-historyWindowYears, 0, 0)

	for _, pair := range pairs {
		if err := s.refreshPair(ctx, pair, since, summary); err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("refresh product=%d location=%d: %v", pair.ProductID, pair.LocationID, err))
		}
	}

	s.log.Info().
		Int("pairs", summary.Pairs).
		Int("enabled", summary.Enabled).
		Int("disabled", summary.Disabled).
		Int("errors", len(summary.Errors)).
		Msg("forecast refresh completed")

	return summary, nil
}

func (s *ForecastService) refreshPair(ctx context.Context, pair domain.ProductLocation, since time.Time, summary *RefreshSummary) error {
	history, err := s.sales.GetSalesHistory(ctx, pair.ProductID, pair.LocationID, since)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	rate := forecast.WeightedDailyRate(history, s.cfg.RateWindowDays)
	seasonal := forecast.Seasonality(history, s.cfg.MinSeasonalityYears)
	trend := forecast.TrendRate(history, s.cfg.TrendLookbackMonths)
	accuracy := s.scoreModel(ctx, pair, history, rate, seasonal, trend)

	fc := &domain.Forecast{
		ProductID:  pair.ProductID,
		LocationID: pair.LocationID,
		DailyRate:  rate,
		Confidence: accuracy.Confidence,
		Enabled:    rate > 0,
	}
	if err := s.forecasts.UpsertForecast(ctx, fc); err != nil {
		return fmt.Errorf("upsert forecast: %w", err)
	}

	if fc.Enabled {
		summary.Enabled++
	} else {
		summary.Disabled++
	}
	return nil
}

// scoreModel backtests the model for the pair, going through the accuracy
// cache first. Cache failures only log; the backtest result is what matters.
func (s *ForecastService) scoreModel(ctx context.Context, pair domain.ProductLocation, history []domain.SalesDataPoint, rate float64, seasonal [12]float64, trend float64) domain.ForecastAccuracyResult {
	if cached, ok, err := s.accuracy.Get(ctx, pair.ProductID, pair.LocationID); err != nil {
		s.log.Warn().Err(err).Msg("accuracy cache read failed")
	} else if ok {
		return *cached
	}

	result := forecast.Backtest(history, rate, seasonal, trend, s.cfg.BacktestDays)

	if err := s.accuracy.Set(ctx, pair.ProductID, pair.LocationID, result); err != nil {
		s.log.Warn().Err(err).Msg("accuracy cache write failed")
	}
	return result
}
