// internal/engine/sourcing.go
package engine

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/autoreplenish/internal/domain"
)

// transferCandidate is a source location that could feed the destination.
type transferCandidate struct {
	LocationID   int64
	AvailableQty int
	Route        domain.ShippingRoute
}

// rejectedCandidate records why a source was passed over, for the
// suggestion's reasoning trail.
type rejectedCandidate struct {
	LocationID int64
	Message    string
}

// rankTransferCandidates searches other locations holding the product for a
// transfer source. Candidates need positive available stock and an active
// route to the destination; they are ranked by default route first, then
// shorter transit, then larger available quantity. The winner is returned
// only if it can cover the full recommended quantity; otherwise every
// candidate is reported as rejected and sourcing falls back to a purchase
// order.
func rankTransferCandidates(sig *signals, productID, destLocationID int64, recommendedQty int) (*transferCandidate, []rejectedCandidate) {
	// A lane can carry several active routes; keep the best one per source.
	routesByFrom := make(map[int64]domain.ShippingRoute)
	for _, route := range sig.routes[destLocationID] {
		existing, ok := routesByFrom[route.FromLocationID]
		if !ok || betterRoute(route, existing) {
			routesByFrom[route.FromLocationID] = route
		}
	}

	var candidates []transferCandidate
	for _, level := range sig.stockByProduct[productID] {
		if level.LocationID == destLocationID {
			continue
		}
		available := level.Available()
		if available <= 0 {
			continue
		}
		route, ok := routesByFrom[level.LocationID]
		if !ok {
			continue
		}
		candidates = append(candidates, transferCandidate{
			LocationID:   level.LocationID,
			AvailableQty: available,
			Route:        route,
		})
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Route.Default != b.Route.Default {
			return a.Route.Default
		}
		if a.Route.TransitDays != b.Route.TransitDays {
			return a.Route.TransitDays < b.Route.TransitDays
		}
		return a.AvailableQty > b.AvailableQty
	})

	if candidates[0].AvailableQty >= recommendedQty {
		return &candidates[0], rejectedAfter(candidates, 1)
	}

	return nil, rejectedShort(candidates, recommendedQty)
}

// betterRoute orders two routes on the same lane: default first, then
// shorter transit.
func betterRoute(a, b domain.ShippingRoute) bool {
	if a.Default != b.Default {
		return a.Default
	}
	return a.TransitDays < b.TransitDays
}

// rejectedAfter reports the candidates outranked by the winner.
func rejectedAfter(candidates []transferCandidate, from int) []rejectedCandidate {
	var rejected []rejectedCandidate
	for _, c := range candidates[from:] {
		rejected = append(rejected, rejectedCandidate{
			LocationID: c.LocationID,
			Message:    fmt.Sprintf("location %d outranked (%d available, %d days transit)", c.LocationID, c.AvailableQty, c.Route.TransitDays),
		})
	}
	return rejected
}

// rejectedShort reports candidates that could not cover the recommended
// quantity.
func rejectedShort(candidates []transferCandidate, recommendedQty int) []rejectedCandidate {
	rejected := make([]rejectedCandidate, 0, len(candidates))
	for _, c := range candidates {
		rejected = append(rejected, rejectedCandidate{
			LocationID: c.LocationID,
			Message:    fmt.Sprintf("location %d has only %d of %d units needed", c.LocationID, c.AvailableQty, recommendedQty),
		})
	}
	return rejected
}
