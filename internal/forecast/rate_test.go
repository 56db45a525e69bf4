package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/stretchr/testify/assert"
)

// salesSeries builds daily history ending today, oldest value first.
func salesSeries(units ...int) []domain.SalesDataPoint {
	today := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	points := make([]domain.SalesDataPoint, len(units))
	for i, u := range units {
		points[i] = domain.SalesDataPoint{
			Date:      today.AddDate(0, 0, -(len(units) - 1 - i)),
			UnitsSold: u,
		}
	}
	return points
}

func TestDailyRate(t *testing.T) {
	tests := []struct {
		name     string
		history  []domain.SalesDataPoint
		days     int
		expected float64
	}{
		{"empty history", nil, 30, 0},
		{"single point", salesSeries(8), 30, 8},
		{"window covers all", salesSeries(10, 20, 30), 30, 20},
		{"window truncates to recent", salesSeries(100, 100, 10, 20, 30), 3, 20},
		{"zero window", salesSeries(10, 20), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DailyRate(tt.history, tt.days), 1e-9)
		})
	}
}

func TestDailyRateUnorderedInput(t *testing.T) {
	history := salesSeries(1, 2, 3, 4, 5)
	shuffled := []domain.SalesDataPoint{history[3], history[0], history[4], history[1], history[2]}

	assert.InDelta(t, DailyRate(history, 3), DailyRate(shuffled, 3), 1e-9)
}

func TestWeightedDailyRateFavorsRecent(t *testing.T) {
	// Recent days sell more; weighted mean must sit above the simple mean.
	rising := salesSeries(1, 2, 4, 8, 16)
	assert.Greater(t, WeightedDailyRate(rising, 5), DailyRate(rising, 5))

	// And below it when demand is falling.
	falling := salesSeries(16, 8, 4, 2, 1)
	assert.Less(t, WeightedDailyRate(falling, 5), DailyRate(falling, 5))
}

func TestWeightedDailyRateFlatSeries(t *testing.T) {
	flat := salesSeries(7, 7, 7, 7, 7, 7, 7)
	assert.InDelta(t, 7.0, WeightedDailyRate(flat, 7), 1e-9)
}

func TestWeightedDailyRateWeights(t *testing.T) {
	// Window of 2, most recent 10 then 4: (10*2 + 4*1) / 3.
	history := salesSeries(100, 4, 10)
	assert.InDelta(t, 8.0, WeightedDailyRate(history, 2), 1e-9)
}
