package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// yearOfSales builds one point per day for the given number of days ending
// 2024-12-31, selling base units daily except during boostMonth which sells
// base*factor.
func yearOfSales(days, base int, boostMonth time.Month, factor int) []domain.SalesDataPoint {
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	points := make([]domain.SalesDataPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := end.AddDate(0, 0, -i)
		units := base
		if date.Month() == boostMonth {
			units = base * factor
		}
		points = append(points, domain.SalesDataPoint{Date: date, UnitsSold: units})
	}
	return points
}

func TestSeasonalityInsufficientData(t *testing.T) {
	history := yearOfSales(200, 10, time.December, 2)
	assert.Equal(t, DefaultSeasonality(), Seasonality(history, 1))
}

func TestSeasonalityEmptyHistory(t *testing.T) {
	assert.Equal(t, DefaultSeasonality(), Seasonality(nil, 1))
}

func TestSeasonalityAllZeroSales(t *testing.T) {
	history := yearOfSales(400, 0, time.December, 1)
	assert.Equal(t, DefaultSeasonality(), Seasonality(history, 1))
}

func TestSeasonalityDoubledMonth(t *testing.T) {
	history := yearOfSales(400, 10, time.December, 2)
	multipliers := Seasonality(history, 1)

	require.Len(t, multipliers[:], 12)
	assert.Greater(t, multipliers[time.December-1], 1.0)
	for m, v := range multipliers {
		assert.GreaterOrEqual(t, v, 0.5, "month %d below clamp floor", m)
		assert.LessOrEqual(t, v, 2.0, "month %d above clamp ceiling", m)
	}
	// Non-boosted months dip just under neutral.
	assert.Less(t, multipliers[time.June-1], 1.0)
}

func TestSeasonalityClampCeiling(t *testing.T) {
	// December sells 50x the baseline; the multiplier must stop at 2.0.
	history := yearOfSales(400, 10, time.December, 50)
	multipliers := Seasonality(history, 1)
	assert.InDelta(t, 2.0, multipliers[time.December-1], 1e-9)
}
