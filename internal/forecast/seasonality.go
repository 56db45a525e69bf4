package forecast

import "github.com/andresuchdata/autoreplenish/internal/domain"

const (
	seasonalMultiplierMin = 0.5
	seasonalMultiplierMax = 2.0
)

// DefaultSeasonality returns the neutral profile: twelve 1.0 multipliers.
func DefaultSeasonality() [12]float64 {
	return [12]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
}

// Seasonality derives one demand multiplier per calendar month from sales
// history. It needs at least minYears full years of data points; with less
// (or with no sales at all) it returns the neutral profile. Each month's
// mean daily sales is divided by the grand mean across months and clamped
// to [0.5, 2.0].
func Seasonality(history []domain.SalesDataPoint, minYears int) [12]float64 {
	if minYears < 1 {
		minYears = 1
	}
	if len(history) < minYears*365 {
		return DefaultSeasonality()
	}

	var sums [12]float64
	var counts [12]int
	for _, p := range history {
		m := int(p.Date.Month()) - 1
		sums[m] += float64(p.UnitsSold)
		counts[m]++
	}

	var means [12]float64
	var grand float64
	for m := 0; m < 12; m++ {
		if counts[m] > 0 {
			means[m] = sums[m] / float64(counts[m])
		}
		grand += means[m]
	}
	grand /= 12

	if grand == 0 {
		return DefaultSeasonality()
	}

	multipliers := DefaultSeasonality()
	for m := 0; m < 12; m++ {
		multipliers[m] = clamp(means[m]/grand, seasonalMultiplierMin, seasonalMultiplierMax)
	}
	return multipliers
}
