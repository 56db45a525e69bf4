// internal/service/forecast_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/cache"
	"github.com/andresuchdata/autoreplenish/internal/config"
	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/andresuchdata/autoreplenish/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refreshNow = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		RateWindowDays:      30,
		TrendLookbackMonths: 3,
		BacktestDays:        30,
		MinSeasonalityYears: 1,
	}
}

func newTestForecastService(store *memory.Store, accuracy cache.AccuracyCache) *ForecastService {
	svc := NewForecastService(store, store, accuracy, testEngineConfig())
	svc.now = func() time.Time { return refreshNow }
	return svc
}

// constantSales returns days of steady daily sales ending the day before
// refreshNow.
func constantSales(days, units int) []domain.SalesDataPoint {
	points := make([]domain.SalesDataPoint, 0, days)
	for i := days; i >= 1; i-- {
		points = append(points, domain.SalesDataPoint{
			Date:      refreshNow.AddDate(0, 0, -i),
			UnitsSold: units,
		})
	}
	return points
}

// stubAccuracyCache records writes and optionally serves a canned result.
type stubAccuracyCache struct {
	result *domain.ForecastAccuracyResult
	getErr error
	sets   []domain.ForecastAccuracyResult
}

func (c *stubAccuracyCache) Get(ctx context.Context, productID, locationID int64) (*domain.ForecastAccuracyResult, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	if c.result == nil {
		return nil, false, nil
	}
	return c.result, true, nil
}

func (c *stubAccuracyCache) Set(ctx context.Context, productID, locationID int64, result domain.ForecastAccuracyResult) error {
	c.sets = append(c.sets, result)
	return nil
}

// failingForecastRepo rejects every upsert.
type failingForecastRepo struct{}

func (failingForecastRepo) UpsertForecast(ctx context.Context, forecast *domain.Forecast) error {
	return errors.New("upsert rejected")
}

func TestRefreshUpsertsEnabledForecast(t *testing.T) {
	store := memory.NewStore()
	store.Sales[domain.ProductLocation{ProductID: 100, LocationID: 1}] = constantSales(60, 10)

	accuracy := &stubAccuracyCache{}
	svc := newTestForecastService(store, accuracy)

	summary, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pairs)
	assert.Equal(t, 1, summary.Enabled)
	assert.Equal(t, 0, summary.Disabled)
	assert.Empty(t, summary.Errors)

	require.Len(t, store.Forecasts, 1)
	fc := store.Forecasts[0]
	assert.True(t, fc.Enabled)
	assert.InDelta(t, 10.0, fc.DailyRate, 0.001)
	assert.Equal(t, domain.ConfidenceHigh, fc.Confidence)

	// Backtest result should have been cached for the next pass.
	require.Len(t, accuracy.sets, 1)
	assert.Equal(t, 30, accuracy.sets[0].SampleSize)
}

func TestRefreshDisablesZeroRatePair(t *testing.T) {
	store := memory.NewStore()
	store.Sales[domain.ProductLocation{ProductID: 100, LocationID: 1}] = constantSales(60, 0)

	svc := newTestForecastService(store, cache.NewNoopAccuracyCache())

	summary, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Enabled)
	assert.Equal(t, 1, summary.Disabled)

	require.Len(t, store.Forecasts, 1)
	assert.False(t, store.Forecasts[0].Enabled)
	assert.Zero(t, store.Forecasts[0].DailyRate)
}

func TestRefreshUsesCachedAccuracy(t *testing.T) {
	store := memory.NewStore()
	store.Sales[domain.ProductLocation{ProductID: 100, LocationID: 1}] = constantSales(60, 10)

	cached := &domain.ForecastAccuracyResult{MAPE: 55, SampleSize: 5, Confidence: domain.ConfidenceLow}
	accuracy := &stubAccuracyCache{result: cached}
	svc := newTestForecastService(store, accuracy)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	require.Len(t, store.Forecasts, 1)
	assert.Equal(t, domain.ConfidenceLow, store.Forecasts[0].Confidence)
	assert.Empty(t, accuracy.sets, "cache hit should skip the backtest write")
}

func TestRefreshSurvivesCacheReadFailure(t *testing.T) {
	store := memory.NewStore()
	store.Sales[domain.ProductLocation{ProductID: 100, LocationID: 1}] = constantSales(60, 10)

	accuracy := &stubAccuracyCache{getErr: errors.New("redis down")}
	svc := newTestForecastService(store, accuracy)

	summary, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Errors)
	require.Len(t, store.Forecasts, 1)
	assert.Equal(t, domain.ConfidenceHigh, store.Forecasts[0].Confidence)
}

func TestRefreshCollectsUpsertErrors(t *testing.T) {
	store := memory.NewStore()
	store.Sales[domain.ProductLocation{ProductID: 100, LocationID: 1}] = constantSales(60, 10)

	svc := NewForecastService(store, failingForecastRepo{}, cache.NewNoopAccuracyCache(), testEngineConfig())
	svc.now = func() time.Time { return refreshNow }

	summary, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pairs)
	assert.Equal(t, 0, summary.Enabled)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "upsert rejected")
}

func TestRefreshFailsWhenPairListingFails(t *testing.T) {
	store := memory.NewStore()
	store.SalesErr = errors.New("sales table unavailable")

	svc := newTestForecastService(store, cache.NewNoopAccuracyCache())

	summary, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Nil(t, summary)
}
