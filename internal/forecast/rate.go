package forecast

import (
	"sort"

	"github.com/andresuchdata/autoreplenish/internal/domain"
)

// DailyRate returns the simple moving average of units sold over the most
// recent `days` data points. History may arrive unordered; it is windowed
// newest-first. Empty history yields 0.
func DailyRate(history []domain.SalesDataPoint, days int) float64 {
	window := recentWindow(history, days)
	if len(window) == 0 {
		return 0
	}

	var total int
	for _, p := range window {
		total += p.UnitsSold
	}
	return float64(total) / float64(len(window))
}

// WeightedDailyRate returns a recency-weighted moving average over the same
// window: point i (0 = most recent) carries weight (windowSize - i), so
// recent days dominate when demand is shifting.
func WeightedDailyRate(history []domain.SalesDataPoint, days int) float64 {
	window := recentWindow(history, days)
	if len(window) == 0 {
		return 0
	}

	var weightedSum, weightTotal float64
	for i, p := range window {
		weight := float64(len(window) - i)
		weightedSum += float64(p.UnitsSold) * weight
		weightTotal += weight
	}
	return weightedSum / weightTotal
}

// recentWindow sorts a copy of history descending by date and truncates it
// to the most recent `days` points.
func recentWindow(history []domain.SalesDataPoint, days int) []domain.SalesDataPoint {
	if len(history) == 0 || days <= 0 {
		return nil
	}

	sorted := make([]domain.SalesDataPoint, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	if len(sorted) > days {
		sorted = sorted[:days]
	}
	return sorted
}
