// internal/repository/postgres/planning_repository.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/andresuchdata/autoreplenish/internal/repository"
	"github.com/jmoiron/sqlx"
)

type planningRepository struct {
	db *DB
}

func NewPlanningRepository(db *DB) repository.PlanningRepository {
	return &planningRepository{db: db}
}

func (r *planningRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	query := `
		SELECT critical_days, warning_days, planned_days,
		       default_safety_stock_days, include_in_transit, last_calculated_at
		FROM intelligence_settings
		LIMIT 1
	`

	var settings domain.Settings
	if err := sqlx.GetContext(ctx, r.db, &settings, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("intelligence settings record missing")
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &settings, nil
}

func (r *planningRepository) GetLocations(ctx context.Context) ([]domain.Location, error) {
	query := `
		SELECT id, name, type, created_at, updated_at
		FROM locations
		ORDER BY id
	`

	var locations []domain.Location
	if err := sqlx.SelectContext(ctx, r.db, &locations, query); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	return locations, nil
}

// GetStockLevels aggregates batch-level stock rows per product and location
// and folds in open transfer line items as in-transit quantity. The mapping
// from row-shaped storage to typed entities happens entirely here.
func (r *planningRepository) GetStockLevels(ctx context.Context) ([]domain.StockLevel, error) {
	batchQuery := `
		SELECT product_id, location_id,
		       COALESCE(SUM(quantity), 0)          AS quantity,
		       COALESCE(SUM(reserved_quantity), 0) AS reserved_quantity
		FROM stock_batches
		GROUP BY product_id, location_id
	`

	var levels []domain.StockLevel
	if err := sqlx.SelectContext(ctx, r.db, &levels, batchQuery); err != nil {
		return nil, fmt.Errorf("failed to aggregate stock batches: %w", err)
	}

	transitQuery := `
		SELECT ti.product_id, t.to_location_id AS location_id,
		       COALESCE(SUM(ti.quantity), 0) AS in_transit_quantity
		FROM transfer_items ti
		JOIN transfers t ON t.id = ti.transfer_id
		WHERE t.status IN ('pending', 'in_transit')
		GROUP BY ti.product_id, t.to_location_id
	`

	type transitRow struct {
		ProductID         int64 `db:"product_id"`
		LocationID        int64 `db:"location_id"`
		InTransitQuantity int   `db:"in_transit_quantity"`
	}
	var transit []transitRow
	if err := sqlx.SelectContext(ctx, r.db, &transit, transitQuery); err != nil {
		return nil, fmt.Errorf("failed to aggregate in-transit quantities: %w", err)
	}

	transitByPair := make(map[domain.ProductLocation]int, len(transit))
	for _, row := range transit {
		transitByPair[domain.ProductLocation{ProductID: row.ProductID, LocationID: row.LocationID}] = row.InTransitQuantity
	}

	for i := range levels {
		key := domain.ProductLocation{ProductID: levels[i].ProductID, LocationID: levels[i].LocationID}
		if qty, ok := transitByPair[key]; ok {
			levels[i].InTransitQuantity = qty
			delete(transitByPair, key)
		}
	}

	// Pairs with in-transit stock but no batch rows still count.
	for key, qty := range transitByPair {
		levels = append(levels, domain.StockLevel{
			ProductID:         key.ProductID,
			LocationID:        key.LocationID,
			InTransitQuantity: qty,
		})
	}

	return levels, nil
}

func (r *planningRepository) GetEnabledForecasts(ctx context.Context) ([]domain.Forecast, error) {
	query := `
		SELECT product_id, location_id, daily_rate, confidence, enabled, updated_at
		FROM forecasts
		WHERE enabled = TRUE
	`

	var forecasts []domain.Forecast
	if err := sqlx.SelectContext(ctx, r.db, &forecasts, query); err != nil {
		return nil, fmt.Errorf("failed to list forecasts: %w", err)
	}

	return forecasts, nil
}

func (r *planningRepository) GetActiveSafetyStockRules(ctx context.Context) ([]domain.SafetyStockRule, error) {
	query := `
		SELECT product_id, location_id, threshold_type, threshold_value, active
		FROM safety_stock_rules
		WHERE active = TRUE
	`

	var rules []domain.SafetyStockRule
	if err := sqlx.SelectContext(ctx, r.db, &rules, query); err != nil {
		return nil, fmt.Errorf("failed to list safety stock rules: %w", err)
	}

	return rules, nil
}

func (r *planningRepository) GetActiveShippingRoutes(ctx context.Context) ([]domain.ShippingRoute, error) {
	query := `
		SELECT from_location_id, to_location_id, method, transit_days, is_default, is_active
		FROM shipping_routes
		WHERE is_active = TRUE
	`

	var routes []domain.ShippingRoute
	if err := sqlx.SelectContext(ctx, r.db, &routes, query); err != nil {
		return nil, fmt.Errorf("failed to list shipping routes: %w", err)
	}

	return routes, nil
}

func (r *planningRepository) GetProductSuppliers(ctx context.Context) (map[int64]domain.Supplier, error) {
	query := `
		SELECT ps.product_id, s.id, s.name, s.lead_time_days
		FROM product_suppliers ps
		JOIN suppliers s ON s.id = ps.supplier_id
	`

	type supplierRow struct {
		ProductID    int64  `db:"product_id"`
		ID           int64  `db:"id"`
		Name         string `db:"name"`
		LeadTimeDays int    `db:"lead_time_days"`
	}
	var rows []supplierRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list product suppliers: %w", err)
	}

	suppliers := make(map[int64]domain.Supplier, len(rows))
	for _, row := range rows {
		suppliers[row.ProductID] = domain.Supplier{
			ID:           row.ID,
			Name:         row.Name,
			LeadTimeDays: row.LeadTimeDays,
		}
	}

	return suppliers, nil
}

func (r *planningRepository) GetPendingSuggestionKeys(ctx context.Context) ([]domain.SuggestionKey, error) {
	query := `
		SELECT product_id, location_id, type
		FROM replenishment_suggestions
		WHERE status = 'pending'
	`

	var keys []domain.SuggestionKey
	if err := sqlx.SelectContext(ctx, r.db, &keys, query); err != nil {
		return nil, fmt.Errorf("failed to list pending suggestions: %w", err)
	}

	return keys, nil
}

// InsertSuggestion appends one suggestion. The dedup check upstream is only
// a snapshot; a partial unique index on (product_id, location_id, type)
// WHERE status = 'pending' is what actually prevents duplicates under
// concurrent runs.
func (r *planningRepository) InsertSuggestion(ctx context.Context, s *domain.Suggestion) error {
	reasoning, err := json.Marshal(s.Reasoning)
	if err != nil {
		return fmt.Errorf("failed to encode reasoning: %w", err)
	}

	query := `
		INSERT INTO replenishment_suggestions (
			type, urgency, status, product_id, location_id,
			current_stock, reserved_quantity, in_transit_quantity,
			daily_sales_rate, days_of_stock_remaining, stockout_date,
			safety_stock_threshold, recommended_qty, estimated_arrival,
			source_location_id, source_available_qty, supplier_id, supplier_name,
			route_method, route_transit_days, reasoning, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
		RETURNING id
	`

	err = r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(
			ctx, query,
			s.Type, s.Urgency, s.Status, s.ProductID, s.LocationID,
			s.CurrentStock, s.ReservedQuantity, s.InTransitQuantity,
			s.DailySalesRate, s.DaysOfStockRemaining, s.StockoutDate,
			s.SafetyStockThreshold, s.RecommendedQty, s.EstimatedArrival,
			s.SourceLocationID, s.SourceAvailableQty, s.SupplierID, nullIfEmpty(s.SupplierName),
			nullIfEmpty(s.RouteMethod), s.RouteTransitDays, reasoning, s.CreatedAt,
		).Scan(&s.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to insert suggestion: %w", err)
	}

	return nil
}

func (r *planningRepository) UpdateLastCalculated(ctx context.Context, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE intelligence_settings SET last_calculated_at = $1`, at); err != nil {
		return fmt.Errorf("failed to update last calculated timestamp: %w", err)
	}
	return nil
}

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
