// internal/repository/postgres/forecast_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/andresuchdata/autoreplenish/internal/repository"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) repository.ForecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) UpsertForecast(ctx context.Context, f *domain.Forecast) error {
	query := `
		INSERT INTO forecasts (
			product_id, location_id, daily_rate, confidence, enabled, updated_at
		) VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET
			daily_rate = EXCLUDED.daily_rate,
			confidence = EXCLUDED.confidence,
			enabled = EXCLUDED.enabled,
			updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, f.ProductID, f.LocationID, f.DailyRate, f.Confidence, f.Enabled); err != nil {
		return fmt.Errorf("failed to upsert forecast: %w", err)
	}

	return nil
}
