// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/andresuchdata/autoreplenish/internal/repository"
	"github.com/jmoiron/sqlx"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) GetSalesHistory(ctx context.Context, productID, locationID int64, since time.Time) ([]domain.SalesDataPoint, error) {
	query := `
		SELECT date, units_sold
		FROM sales_history
		WHERE product_id = $1 AND location_id = $2 AND date >= $3
		ORDER BY date
	`

	var points []domain.SalesDataPoint
	if err := sqlx.SelectContext(ctx, r.db, &points, query, productID, locationID, since); err != nil {
		return nil, fmt.Errorf("failed to get sales history: %w", err)
	}

	return points, nil
}

func (r *salesRepository) GetActiveProductLocations(ctx context.Context) ([]domain.ProductLocation, error) {
	query := `
		SELECT DISTINCT product_id, location_id
		FROM sales_history
		ORDER BY product_id, location_id
	`

	var pairs []domain.ProductLocation
	if err := sqlx.SelectContext(ctx, r.db, &pairs, query); err != nil {
		return nil, fmt.Errorf("failed to list active product locations: %w", err)
	}

	return pairs, nil
}
