// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/domain"
)

// SalesRepository reads the historical sales facts the forecasting
// components consume.
type SalesRepository interface {
	// GetSalesHistory returns every recorded sales point for the pair on
	// or after since, in no guaranteed order.
	GetSalesHistory(ctx context.Context, productID, locationID int64, since time.Time) ([]domain.SalesDataPoint, error)
	// GetActiveProductLocations lists every product/location pair with at
	// least one recorded sale.
	GetActiveProductLocations(ctx context.Context) ([]domain.ProductLocation, error)
}

// ForecastRepository persists the daily-rate signal produced by the
// forecast refresh pass.
type ForecastRepository interface {
	UpsertForecast(ctx context.Context, forecast *domain.Forecast) error
}

// PlanningRepository is the replenishment engine's view of the data
// boundary. Reads happen at the start of a run; the only writes are
// suggestion inserts and the last-calculated timestamp.
type PlanningRepository interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	GetLocations(ctx context.Context) ([]domain.Location, error)
	GetStockLevels(ctx context.Context) ([]domain.StockLevel, error)
	GetEnabledForecasts(ctx context.Context) ([]domain.Forecast, error)
	GetActiveSafetyStockRules(ctx context.Context) ([]domain.SafetyStockRule, error)
	GetActiveShippingRoutes(ctx context.Context) ([]domain.ShippingRoute, error)
	// GetProductSuppliers maps product ID to its purchase-order supplier.
	GetProductSuppliers(ctx context.Context) (map[int64]domain.Supplier, error)
	// GetPendingSuggestionKeys returns the dedup snapshot of suggestions
	// still awaiting downstream action.
	GetPendingSuggestionKeys(ctx context.Context) ([]domain.SuggestionKey, error)
	InsertSuggestion(ctx context.Context, suggestion *domain.Suggestion) error
	UpdateLastCalculated(ctx context.Context, at time.Time) error
}
