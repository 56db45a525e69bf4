package forecast

import (
	"sort"

	"github.com/andresuchdata/autoreplenish/internal/domain"
)

const (
	trendRateMin = -0.20
	trendRateMax = 0.20

	// minTrendDataPoints rejects histories too short for a monthly trend
	// to mean anything.
	minTrendDataPoints = 60
)

// TrendRate derives a capped month-over-month growth rate from sales
// history. Sales are bucketed into calendar months, the most recent
// lookbackMonths totals are compared pairwise, and the mean growth rate is
// clamped to [-0.20, 0.20]. Returns 0 when history is under 60 points,
// fewer than two monthly buckets are available, or no pair has a positive
// prior-month total.
func TrendRate(history []domain.SalesDataPoint, lookbackMonths int) float64 {
	if len(history) < minTrendDataPoints || lookbackMonths < 2 {
		return 0
	}

	sorted := make([]domain.SalesDataPoint, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	// Bucket by YYYY-MM, preserving chronological order of first appearance.
	totals := make(map[string]int)
	var keys []string
	for _, p := range sorted {
		key := p.Date.Format("2006-01")
		if _, seen := totals[key]; !seen {
			keys = append(keys, key)
		}
		totals[key] += p.UnitsSold
	}

	if len(keys) > lookbackMonths {
		keys = keys[len(keys)-lookbackMonths:]
	}
	if len(keys) < 2 {
		return 0
	}

	var growthSum float64
	var pairs int
	for i := 1; i < len(keys); i++ {
		prev := totals[keys[i-1]]
		if prev <= 0 {
			continue
		}
		growthSum += float64(totals[keys[i]]-prev) / float64(prev)
		pairs++
	}
	if pairs == 0 {
		return 0
	}

	return clamp(growthSum/float64(pairs), trendRateMin, trendRateMax)
}
