// internal/domain/models.go
package domain

import "time"

// Location represents a stock-holding node in the fulfillment network
type Location struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LocationTypeFulfillment marks sell-through nodes; only these are
// considered as replenishment destinations.
const LocationTypeFulfillment = "fulfillment"

// IsFulfillment reports whether the location is a sell-through node.
func (l Location) IsFulfillment() bool {
	return l.Type == LocationTypeFulfillment
}

// SalesDataPoint is a single day of unit sales for a product at a location
type SalesDataPoint struct {
	Date      time.Time `json:"date" db:"date"`
	UnitsSold int       `json:"units_sold" db:"units_sold"`
}

// ForecastAccuracyResult bundles the error metrics of a scored forecast
type ForecastAccuracyResult struct {
	MAPE       float64    `json:"mape"`
	MAE        float64    `json:"mae"`
	RMSE       float64    `json:"rmse"`
	Bias       float64    `json:"bias"`
	Accuracy   float64    `json:"accuracy"`
	Confidence Confidence `json:"confidence"`
	SampleSize int        `json:"sample_size"`
}

// Confidence grades a forecast by sample size and error level
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// StockLevel is the batch-aggregated stock position of a product at a location
type StockLevel struct {
	ProductID         int64 `json:"product_id" db:"product_id"`
	LocationID        int64 `json:"location_id" db:"location_id"`
	Quantity          int   `json:"quantity" db:"quantity"`
	ReservedQuantity  int   `json:"reserved_quantity" db:"reserved_quantity"`
	InTransitQuantity int   `json:"in_transit_quantity" db:"in_transit_quantity"`
}

// Available returns stock on hand minus reservations.
func (s StockLevel) Available() int {
	return s.Quantity - s.ReservedQuantity
}

// Forecast is the stored daily-rate signal for a product at a location
type Forecast struct {
	ProductID  int64      `json:"product_id" db:"product_id"`
	LocationID int64      `json:"location_id" db:"location_id"`
	DailyRate  float64    `json:"daily_rate" db:"daily_rate"`
	Confidence Confidence `json:"confidence" db:"confidence"`
	Enabled    bool       `json:"enabled" db:"enabled"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// ThresholdType selects how a safety stock rule expresses its minimum buffer
type ThresholdType string

const (
	ThresholdUnits       ThresholdType = "units"
	ThresholdDaysOfCover ThresholdType = "days_of_cover"
)

// SafetyStockRule overrides the default safety stock policy per product/location
type SafetyStockRule struct {
	ProductID      int64         `json:"product_id" db:"product_id"`
	LocationID     int64         `json:"location_id" db:"location_id"`
	ThresholdType  ThresholdType `json:"threshold_type" db:"threshold_type"`
	ThresholdValue float64       `json:"threshold_value" db:"threshold_value"`
	Active         bool          `json:"active" db:"active"`
}

// ShippingRoute is a directed transfer lane between two locations
type ShippingRoute struct {
	FromLocationID int64  `json:"from_location_id" db:"from_location_id"`
	ToLocationID   int64  `json:"to_location_id" db:"to_location_id"`
	Method         string `json:"method" db:"method"`
	TransitDays    int    `json:"transit_days" db:"transit_days"`
	Default        bool   `json:"is_default" db:"is_default"`
	Active         bool   `json:"is_active" db:"is_active"`
}

// Supplier is the purchase-order source for a product
type Supplier struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	LeadTimeDays int    `json:"lead_time_days" db:"lead_time_days"`
}

// Settings is the intelligence settings record, fetched once per run and
// passed explicitly into every component that needs it.
type Settings struct {
	CriticalDays           int        `json:"critical_days" db:"critical_days"`
	WarningDays            int        `json:"warning_days" db:"warning_days"`
	PlannedDays            int        `json:"planned_days" db:"planned_days"`
	DefaultSafetyStockDays int        `json:"default_safety_stock_days" db:"default_safety_stock_days"`
	IncludeInTransit       bool       `json:"include_in_transit" db:"include_in_transit"`
	LastCalculatedAt       *time.Time `json:"last_calculated_at" db:"last_calculated_at"`
}

// Urgency classifies stock-out risk. Ordering is strict:
// critical > warning > planned > monitor.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyWarning  Urgency = "warning"
	UrgencyPlanned  Urgency = "planned"
	UrgencyMonitor  Urgency = "monitor"
)

// SuggestionType distinguishes inter-location transfers from new purchase orders
type SuggestionType string

const (
	SuggestionTransfer      SuggestionType = "transfer"
	SuggestionPurchaseOrder SuggestionType = "purchase_order"
)

// SuggestionStatusPending is the only status this engine ever writes;
// the downstream approval workflow owns the rest of the lifecycle.
const SuggestionStatusPending = "pending"

// ReasonType tags an entry in a suggestion's reasoning trail
type ReasonType string

const (
	ReasonCurrentStock      ReasonType = "current_stock"
	ReasonDailySalesRate    ReasonType = "daily_sales_rate"
	ReasonDaysRemaining     ReasonType = "days_remaining"
	ReasonSafetyStock       ReasonType = "safety_stock"
	ReasonRecommendedQty    ReasonType = "recommended_qty"
	ReasonTransferSource    ReasonType = "transfer_source"
	ReasonSupplier          ReasonType = "supplier"
	ReasonRejectedCandidate ReasonType = "rejected_candidate"
)

// Reason is one ordered, human-readable fact backing a suggestion
type Reason struct {
	Type    ReasonType `json:"type"`
	Message string     `json:"message"`
	Value   float64    `json:"value"`
}

// SuggestionKey identifies a suggestion for dedup purposes
type SuggestionKey struct {
	ProductID  int64          `json:"product_id" db:"product_id"`
	LocationID int64          `json:"location_id" db:"location_id"`
	Type       SuggestionType `json:"type" db:"type"`
}

// Suggestion is one replenishment recommendation emitted by the engine.
// It is created once per run and never mutated afterwards.
type Suggestion struct {
	ID                   int64          `json:"id" db:"id"`
	Type                 SuggestionType `json:"type" db:"type"`
	Urgency              Urgency        `json:"urgency" db:"urgency"`
	Status               string         `json:"status" db:"status"`
	ProductID            int64          `json:"product_id" db:"product_id"`
	LocationID           int64          `json:"location_id" db:"location_id"`
	CurrentStock         int            `json:"current_stock" db:"current_stock"`
	ReservedQuantity     int            `json:"reserved_quantity" db:"reserved_quantity"`
	InTransitQuantity    int            `json:"in_transit_quantity" db:"in_transit_quantity"`
	DailySalesRate       float64        `json:"daily_sales_rate" db:"daily_sales_rate"`
	DaysOfStockRemaining int            `json:"days_of_stock_remaining" db:"days_of_stock_remaining"`
	StockoutDate         time.Time      `json:"stockout_date" db:"stockout_date"`
	SafetyStockThreshold int            `json:"safety_stock_threshold" db:"safety_stock_threshold"`
	RecommendedQty       int            `json:"recommended_qty" db:"recommended_qty"`
	EstimatedArrival     time.Time      `json:"estimated_arrival" db:"estimated_arrival"`
	SourceLocationID     *int64         `json:"source_location_id,omitempty" db:"source_location_id"`
	SourceAvailableQty   int            `json:"source_available_qty" db:"source_available_qty"`
	SupplierID           *int64         `json:"supplier_id,omitempty" db:"supplier_id"`
	SupplierName         string         `json:"supplier_name,omitempty" db:"supplier_name"`
	RouteMethod          string         `json:"route_method,omitempty" db:"route_method"`
	RouteTransitDays     int            `json:"route_transit_days" db:"route_transit_days"`
	Reasoning            []Reason       `json:"reasoning" db:"-"`
	CreatedAt            time.Time      `json:"created_at" db:"created_at"`
}

// Key returns the dedup key of the suggestion.
func (s *Suggestion) Key() SuggestionKey {
	return SuggestionKey{ProductID: s.ProductID, LocationID: s.LocationID, Type: s.Type}
}

// RunSummary is the structured result of one full calculation pass
type RunSummary struct {
	TransferSuggestions int       `json:"transfer_suggestions"`
	POSuggestions       int       `json:"po_suggestions"`
	Inserted            int       `json:"inserted"`
	Errors              []string  `json:"errors"`
	StartedAt           time.Time `json:"started_at"`
	CompletedAt         time.Time `json:"completed_at"`
}

// ProductLocation is a product/location pair with recorded sales activity
type ProductLocation struct {
	ProductID  int64 `json:"product_id" db:"product_id"`
	LocationID int64 `json:"location_id" db:"location_id"`
}
