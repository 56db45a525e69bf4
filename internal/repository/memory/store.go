// internal/repository/memory/store.go
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/andresuchdata/autoreplenish/internal/repository"
)

// Store is an in-memory implementation of the repository interfaces. It
// backs tests and local fixtures; fields are set directly before use, and
// the error fields inject failures for the relevant fetch or write.
type Store struct {
	mu sync.RWMutex

	Settings  *domain.Settings
	Locations []domain.Location
	Stock     []domain.StockLevel
	Forecasts []domain.Forecast
	Rules     []domain.SafetyStockRule
	Routes    []domain.ShippingRoute
	Suppliers map[int64]domain.Supplier
	Pending   []domain.SuggestionKey
	Sales     map[domain.ProductLocation][]domain.SalesDataPoint

	Inserted         []*domain.Suggestion
	LastCalculatedAt *time.Time

	SettingsErr  error
	StockErr     error
	ForecastsErr error
	RulesErr     error
	RoutesErr    error
	SuppliersErr error
	PendingErr   error
	InsertErr    error
	SalesErr     error
}

// Verify interface compliance
var (
	_ repository.PlanningRepository = (*Store)(nil)
	_ repository.SalesRepository    = (*Store)(nil)
	_ repository.ForecastRepository = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		Suppliers: make(map[int64]domain.Supplier),
		Sales:     make(map[domain.ProductLocation][]domain.SalesDataPoint),
	}
}

func (s *Store) GetSettings(ctx context.Context) (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.SettingsErr != nil {
		return nil, s.SettingsErr
	}
	settings := *s.Settings
	return &settings, nil
}

func (s *Store) GetLocations(ctx context.Context) ([]domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Location(nil), s.Locations...), nil
}

func (s *Store) GetStockLevels(ctx context.Context) ([]domain.StockLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.StockErr != nil {
		return nil, s.StockErr
	}
	return append([]domain.StockLevel(nil), s.Stock...), nil
}

func (s *Store) GetEnabledForecasts(ctx context.Context) ([]domain.Forecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ForecastsErr != nil {
		return nil, s.ForecastsErr
	}
	var enabled []domain.Forecast
	for _, fc := range s.Forecasts {
		if fc.Enabled {
			enabled = append(enabled, fc)
		}
	}
	return enabled, nil
}

func (s *Store) GetActiveSafetyStockRules(ctx context.Context) ([]domain.SafetyStockRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.RulesErr != nil {
		return nil, s.RulesErr
	}
	var active []domain.SafetyStockRule
	for _, rule := range s.Rules {
		if rule.Active {
			active = append(active, rule)
		}
	}
	return active, nil
}

func (s *Store) GetActiveShippingRoutes(ctx context.Context) ([]domain.ShippingRoute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.RoutesErr != nil {
		return nil, s.RoutesErr
	}
	var active []domain.ShippingRoute
	for _, route := range s.Routes {
		if route.Active {
			active = append(active, route)
		}
	}
	return active, nil
}

func (s *Store) GetProductSuppliers(ctx context.Context) (map[int64]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.SuppliersErr != nil {
		return nil, s.SuppliersErr
	}
	suppliers := make(map[int64]domain.Supplier, len(s.Suppliers))
	for id, supplier := range s.Suppliers {
		suppliers[id] = supplier
	}
	return suppliers, nil
}

func (s *Store) GetPendingSuggestionKeys(ctx context.Context) ([]domain.SuggestionKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.PendingErr != nil {
		return nil, s.PendingErr
	}
	return append([]domain.SuggestionKey(nil), s.Pending...), nil
}

func (s *Store) InsertSuggestion(ctx context.Context, suggestion *domain.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertErr != nil {
		return s.InsertErr
	}
	suggestion.ID = int64(len(s.Inserted) + 1)
	s.Inserted = append(s.Inserted, suggestion)
	s.Pending = append(s.Pending, suggestion.Key())
	return nil
}

func (s *Store) UpdateLastCalculated(ctx context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastCalculatedAt = &at
	if s.Settings != nil {
		s.Settings.LastCalculatedAt = &at
	}
	return nil
}

func (s *Store) GetSalesHistory(ctx context.Context, productID, locationID int64, since time.Time) ([]domain.SalesDataPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.SalesErr != nil {
		return nil, s.SalesErr
	}
	var history []domain.SalesDataPoint
	for _, p := range s.Sales[domain.ProductLocation{ProductID: productID, LocationID: locationID}] {
		if !p.Date.Before(since) {
			history = append(history, p)
		}
	}
	return history, nil
}

func (s *Store) GetActiveProductLocations(ctx context.Context) ([]domain.ProductLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.SalesErr != nil {
		return nil, s.SalesErr
	}
	pairs := make([]domain.ProductLocation, 0, len(s.Sales))
	for pair := range s.Sales {
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func (s *Store) UpsertForecast(ctx context.Context, forecast *domain.Forecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, fc := range s.Forecasts {
		if fc.ProductID == forecast.ProductID && fc.LocationID == forecast.LocationID {
			s.Forecasts[i] = *forecast
			return nil
		}
	}
	s.Forecasts = append(s.Forecasts, *forecast)
	return nil
}
