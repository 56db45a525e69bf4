// internal/engine/engine.go
package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/config"
	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/andresuchdata/autoreplenish/internal/repository"
	"github.com/andresuchdata/autoreplenish/pkg/logger"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// forecastHorizonDays is the demand window a replenishment order targets.
const forecastHorizonDays = 30

// Engine runs one replenishment calculation pass: it classifies stock-out
// urgency per product/location, sizes an order, picks a transfer source or
// falls back to a purchase order, and emits pending suggestions.
type Engine struct {
	repo repository.PlanningRepository
	cfg  config.EngineConfig
	now  func() time.Time
	log  zerolog.Logger
}

func New(repo repository.PlanningRepository, cfg config.EngineConfig) *Engine {
	return &Engine{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
		log:  logger.With("engine"),
	}
}

// signals is the full read snapshot an engine pass works from.
type signals struct {
	settings       *domain.Settings
	locations      map[int64]domain.Location
	stock          map[domain.ProductLocation]domain.StockLevel
	stockByProduct map[int64][]domain.StockLevel
	forecasts      []domain.Forecast
	rules          map[domain.ProductLocation]domain.SafetyStockRule
	routes         map[int64][]domain.ShippingRoute // keyed by destination
	suppliers      map[int64]domain.Supplier
	pending        map[domain.SuggestionKey]struct{}
}

// Run performs one full calculation pass. A settings or stock fetch failure
// aborts the run; missing secondary signals (forecasts, rules, routes,
// suppliers) degrade to "no signal" per pair. Per-suggestion insert failures
// are collected into the summary without blocking sibling inserts.
func (e *Engine) Run(ctx context.Context) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{StartedAt: e.now()}

	sig, err := e.fetchSignals(ctx)
	if err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		summary.CompletedAt = e.now()
		return summary, err
	}

	var suggestions []*domain.Suggestion
	for _, fc := range sig.forecasts {
		suggestion := e.evaluatePair(sig, fc)
		if suggestion == nil {
			continue
		}
		if _, dup := sig.pending[suggestion.Key()]; dup {
			e.log.Debug().
				Int64("product_id", suggestion.ProductID).
				Int64("location_id", suggestion.LocationID).
				Str("type", string(suggestion.Type)).
				Msg("suggestion already pending, skipping")
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	for _, s := range suggestions {
		switch s.Type {
		case domain.SuggestionTransfer:
			summary.TransferSuggestions++
		case domain.SuggestionPurchaseOrder:
			summary.POSuggestions++
		}

		if err := e.repo.InsertSuggestion(ctx, s); err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("insert suggestion product=%d location=%d: %v", s.ProductID, s.LocationID, err))
			continue
		}
		summary.Inserted++
	}

	if err := e.repo.UpdateLastCalculated(ctx, e.now()); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("update last calculated: %v", err))
	}

	summary.CompletedAt = e.now()
	e.log.Info().
		Int("transfers", summary.TransferSuggestions).
		Int("purchase_orders", summary.POSuggestions).
		Int("inserted", summary.Inserted).
		Int("errors", len(summary.Errors)).
		Msg("replenishment pass completed")

	return summary, nil
}

// fetchSignals reads the full snapshot for a pass. Settings and stock are
// fetched concurrently and are fatal on failure; every other signal logs a
// warning and degrades to empty.
func (e *Engine) fetchSignals(ctx context.Context) (*signals, error) {
	sig := &signals{
		locations:      make(map[int64]domain.Location),
		stock:          make(map[domain.ProductLocation]domain.StockLevel),
		stockByProduct: make(map[int64][]domain.StockLevel),
		rules:          make(map[domain.ProductLocation]domain.SafetyStockRule),
		routes:         make(map[int64][]domain.ShippingRoute),
		suppliers:      make(map[int64]domain.Supplier),
		pending:        make(map[domain.SuggestionKey]struct{}),
	}

	var stockLevels []domain.StockLevel
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settings, err := e.repo.GetSettings(gctx)
		if err != nil {
			return fmt.Errorf("fetch settings: %w", err)
		}
		e.fillSettingsDefaults(settings)
		sig.settings = settings
		return nil
	})
	g.Go(func() error {
		levels, err := e.repo.GetStockLevels(gctx)
		if err != nil {
			return fmt.Errorf("fetch stock levels: %w", err)
		}
		stockLevels = levels
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, level := range stockLevels {
		key := domain.ProductLocation{ProductID: level.ProductID, LocationID: level.LocationID}
		sig.stock[key] = level
		sig.stockByProduct[level.ProductID] = append(sig.stockByProduct[level.ProductID], level)
	}

	if locations, err := e.repo.GetLocations(ctx); err != nil {
		e.log.Warn().Err(err).Msg("locations unavailable, no pairs will be eligible")
	} else {
		for _, loc := range locations {
			sig.locations[loc.ID] = loc
		}
	}

	if forecasts, err := e.repo.GetEnabledForecasts(ctx); err != nil {
		e.log.Warn().Err(err).Msg("forecasts unavailable, treating as no signal")
	} else {
		sig.forecasts = forecasts
		// Deterministic evaluation order across runs.
		sort.Slice(sig.forecasts, func(i, j int) bool {
			a, b := sig.forecasts[i], sig.forecasts[j]
			if a.ProductID != b.ProductID {
				return a.ProductID < b.ProductID
			}
			return a.LocationID < b.LocationID
		})
	}

	if rules, err := e.repo.GetActiveSafetyStockRules(ctx); err != nil {
		e.log.Warn().Err(err).Msg("safety stock rules unavailable, using defaults")
	} else {
		for _, rule := range rules {
			sig.rules[domain.ProductLocation{ProductID: rule.ProductID, LocationID: rule.LocationID}] = rule
		}
	}

	if routes, err := e.repo.GetActiveShippingRoutes(ctx); err != nil {
		e.log.Warn().Err(err).Msg("shipping routes unavailable, transfers disabled")
	} else {
		for _, route := range routes {
			sig.routes[route.ToLocationID] = append(sig.routes[route.ToLocationID], route)
		}
	}

	if suppliers, err := e.repo.GetProductSuppliers(ctx); err != nil {
		e.log.Warn().Err(err).Msg("supplier data unavailable, purchase orders disabled")
	} else {
		sig.suppliers = suppliers
	}

	if pending, err := e.repo.GetPendingSuggestionKeys(ctx); err != nil {
		e.log.Warn().Err(err).Msg("pending suggestions unavailable, dedup disabled for this run")
	} else {
		for _, key := range pending {
			sig.pending[key] = struct{}{}
		}
	}

	return sig, nil
}

// fillSettingsDefaults backfills day counts the settings row leaves unset
// with the configured defaults. A populated row value always wins.
func (e *Engine) fillSettingsDefaults(s *domain.Settings) {
	if s.CriticalDays <= 0 {
		s.CriticalDays = e.cfg.CriticalDays
	}
	if s.WarningDays <= 0 {
		s.WarningDays = e.cfg.WarningDays
	}
	if s.PlannedDays <= 0 {
		s.PlannedDays = e.cfg.PlannedDays
	}
	if s.DefaultSafetyStockDays <= 0 {
		s.DefaultSafetyStockDays = e.cfg.DefaultSafetyStockDays
	}
}

// evaluatePair runs the per-pair state machine and returns a suggestion, or
// nil when the pair needs no action or cannot be actioned.
func (e *Engine) evaluatePair(sig *signals, fc domain.Forecast) *domain.Suggestion {
	// Only sell-through nodes are replenishment destinations.
	loc, ok := sig.locations[fc.LocationID]
	if !ok || !loc.IsFulfillment() {
		return nil
	}
	if !fc.Enabled || fc.DailyRate <= 0 {
		return nil
	}

	settings := sig.settings
	key := domain.ProductLocation{ProductID: fc.ProductID, LocationID: fc.LocationID}
	level := sig.stock[key] // zero value when the destination holds nothing

	threshold := safetyThreshold(fc.DailyRate, sig.rules, key, settings.DefaultSafetyStockDays)

	available := level.Available()
	effective := available
	if settings.IncludeInTransit {
		effective += level.InTransitQuantity
	}

	daysRemaining := int(math.Floor(float64(effective) / fc.DailyRate))
	urgency := classifyUrgency(daysRemaining, settings)
	if urgency == domain.UrgencyMonitor {
		return nil
	}

	targetStock := int(math.Ceil(fc.DailyRate*forecastHorizonDays)) + threshold
	recommendedQty := roundUpToTen(targetStock - available)
	if recommendedQty == 0 {
		return nil
	}

	now := e.now()
	suggestion := &domain.Suggestion{
		Urgency:              urgency,
		Status:               domain.SuggestionStatusPending,
		ProductID:            fc.ProductID,
		LocationID:           fc.LocationID,
		CurrentStock:         level.Quantity,
		ReservedQuantity:     level.ReservedQuantity,
		InTransitQuantity:    level.InTransitQuantity,
		DailySalesRate:       fc.DailyRate,
		DaysOfStockRemaining: daysRemaining,
		StockoutDate:         now.AddDate(0, 0, daysRemaining),
		SafetyStockThreshold: threshold,
		RecommendedQty:       recommendedQty,
		CreatedAt:            now,
	}
	suggestion.Reasoning = []domain.Reason{
		{Type: domain.ReasonCurrentStock, Message: fmt.Sprintf("%d units on hand, %d reserved, %d in transit", level.Quantity, level.ReservedQuantity, level.InTransitQuantity), Value: float64(available)},
		{Type: domain.ReasonDailySalesRate, Message: fmt.Sprintf("forecast daily sales rate is %.2f units", fc.DailyRate), Value: fc.DailyRate},
		{Type: domain.ReasonDaysRemaining, Message: fmt.Sprintf("%d days of stock remaining, %s urgency", daysRemaining, urgency), Value: float64(daysRemaining)},
		{Type: domain.ReasonSafetyStock, Message: fmt.Sprintf("safety stock threshold is %d units", threshold), Value: float64(threshold)},
		{Type: domain.ReasonRecommendedQty, Message: fmt.Sprintf("recommend %d units to cover %d days of demand plus safety stock", recommendedQty, forecastHorizonDays), Value: float64(recommendedQty)},
	}

	best, rejected := rankTransferCandidates(sig, fc.ProductID, fc.LocationID, recommendedQty)

	if best != nil {
		suggestion.Type = domain.SuggestionTransfer
		suggestion.SourceLocationID = &best.LocationID
		suggestion.SourceAvailableQty = best.AvailableQty
		suggestion.RouteMethod = best.Route.Method
		suggestion.RouteTransitDays = best.Route.TransitDays
		suggestion.EstimatedArrival = now.AddDate(0, 0, best.Route.TransitDays)
		suggestion.Reasoning = append(suggestion.Reasoning, domain.Reason{
			Type:    domain.ReasonTransferSource,
			Message: fmt.Sprintf("transfer %d units from location %d (%d available, %s, %d days transit)", recommendedQty, best.LocationID, best.AvailableQty, best.Route.Method, best.Route.TransitDays),
			Value:   float64(best.LocationID),
		})
	} else {
		supplier, ok := sig.suppliers[fc.ProductID]
		if !ok {
			// No transfer source and no supplier: nothing actionable.
			e.log.Debug().
				Int64("product_id", fc.ProductID).
				Int64("location_id", fc.LocationID).
				Msg("no transfer source or supplier, skipping pair")
			return nil
		}
		suggestion.Type = domain.SuggestionPurchaseOrder
		suggestion.SupplierID = &supplier.ID
		suggestion.SupplierName = supplier.Name
		suggestion.EstimatedArrival = now.AddDate(0, 0, supplier.LeadTimeDays)
		suggestion.Reasoning = append(suggestion.Reasoning, domain.Reason{
			Type:    domain.ReasonSupplier,
			Message: fmt.Sprintf("purchase %d units from %s, lead time %d days", recommendedQty, supplier.Name, supplier.LeadTimeDays),
			Value:   float64(supplier.LeadTimeDays),
		})
	}

	for _, r := range rejected {
		suggestion.Reasoning = append(suggestion.Reasoning, domain.Reason{
			Type:    domain.ReasonRejectedCandidate,
			Message: r.Message,
			Value:   float64(r.LocationID),
		})
	}

	return suggestion
}

// safetyThreshold resolves the minimum buffer for a pair: an active rule's
// fixed unit value or days-of-cover conversion, else the default
// days-of-cover policy.
func safetyThreshold(dailyRate float64, rules map[domain.ProductLocation]domain.SafetyStockRule, key domain.ProductLocation, defaultDays int) int {
	if rule, ok := rules[key]; ok && rule.Active {
		switch rule.ThresholdType {
		case domain.ThresholdUnits:
			return int(rule.ThresholdValue)
		case domain.ThresholdDaysOfCover:
			return int(math.Ceil(dailyRate * rule.ThresholdValue))
		}
	}
	return int(math.Ceil(dailyRate * float64(defaultDays)))
}

// classifyUrgency maps days of remaining cover onto the urgency tiers.
func classifyUrgency(daysRemaining int, settings *domain.Settings) domain.Urgency {
	switch {
	case daysRemaining <= settings.CriticalDays:
		return domain.UrgencyCritical
	case daysRemaining <= settings.WarningDays:
		return domain.UrgencyWarning
	case daysRemaining <= settings.PlannedDays:
		return domain.UrgencyPlanned
	default:
		return domain.UrgencyMonitor
	}
}

// roundUpToTen rounds a quantity up to the nearest multiple of 10, flooring
// negatives at 0.
func roundUpToTen(qty int) int {
	if qty <= 0 {
		return 0
	}
	return (qty + 9) / 10 * 10
}
