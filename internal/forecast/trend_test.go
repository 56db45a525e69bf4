package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/stretchr/testify/assert"
)

// monthlySales spreads each month's total evenly over 30 daily points,
// starting January 2024.
func monthlySales(totals ...int) []domain.SalesDataPoint {
	var points []domain.SalesDataPoint
	for m, total := range totals {
		monthStart := time.Date(2024, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC)
		perDay := total / 30
		remainder := total - perDay*30
		for d := 0; d < 30; d++ {
			units := perDay
			if d == 0 {
				units += remainder
			}
			points = append(points, domain.SalesDataPoint{
				Date:      monthStart.AddDate(0, 0, d),
				UnitsSold: units,
			})
		}
	}
	return points
}

func TestTrendRateGrowth(t *testing.T) {
	// 20% month-over-month growth
	rate := TrendRate(monthlySales(100, 120, 144), 6)
	assert.Greater(t, rate, 0.0)
	assert.LessOrEqual(t, rate, 0.20)
}

func TestTrendRateDecline(t *testing.T) {
	rate := TrendRate(monthlySales(144, 120, 100), 6)
	assert.Less(t, rate, 0.0)
	assert.GreaterOrEqual(t, rate, -0.20)
}

func TestTrendRateClamp(t *testing.T) {
	// Tripling every month must clamp at +0.20.
	assert.InDelta(t, 0.20, TrendRate(monthlySales(100, 300, 900), 6), 1e-9)
	// Collapsing demand clamps at -0.20.
	assert.InDelta(t, -0.20, TrendRate(monthlySales(900, 300, 100), 6), 1e-9)
}

func TestTrendRateInsufficientData(t *testing.T) {
	// Under 60 data points
	assert.Zero(t, TrendRate(monthlySales(100), 6))
	assert.Zero(t, TrendRate(nil, 6))
}

func TestTrendRateLookbackWindow(t *testing.T) {
	// Early decline falls outside a 2-month lookback; only the final
	// 120 -> 144 pair counts.
	history := monthlySales(500, 400, 120, 144)
	assert.InDelta(t, 0.2, TrendRate(history, 2), 1e-9)
}

func TestTrendRateZeroPriorMonths(t *testing.T) {
	// Every prior month is zero, so no valid growth pair exists.
	assert.Zero(t, TrendRate(monthlySales(0, 0, 120), 6))
}

func TestTrendRateFlat(t *testing.T) {
	assert.Zero(t, TrendRate(monthlySales(100, 100, 100), 6))
}
