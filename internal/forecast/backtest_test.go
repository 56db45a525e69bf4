package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/stretchr/testify/assert"
)

func constantHistory(days, units int) []domain.SalesDataPoint {
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	points := make([]domain.SalesDataPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		points = append(points, domain.SalesDataPoint{
			Date:      end.AddDate(0, 0, -i),
			UnitsSold: units,
		})
	}
	return points
}

func TestBacktestConstantDemand(t *testing.T) {
	history := constantHistory(60, 10)

	result := Backtest(history, 10, DefaultSeasonality(), 0, DefaultBacktestDays)

	assert.Equal(t, 30, result.SampleSize)
	assert.Less(t, result.MAPE, 1.0)
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
	assert.Greater(t, result.Accuracy, 99.0)
}

func TestBacktestShortHistory(t *testing.T) {
	result := Backtest(constantHistory(30, 10), 10, DefaultSeasonality(), 0, 30)

	assert.Zero(t, result.SampleSize)
	assert.Zero(t, result.MAPE)
	assert.Equal(t, domain.ConfidenceLow, result.Confidence)
}

func TestBacktestBiasedModel(t *testing.T) {
	// Model over-forecasts a constant-10 series by 2 units/day.
	result := Backtest(constantHistory(90, 10), 12, DefaultSeasonality(), 0, 30)

	assert.Equal(t, 30, result.SampleSize)
	assert.InDelta(t, 20.0, result.MAPE, 1e-6)
	assert.InDelta(t, 2.0, result.Bias, 1e-6)
	assert.InDelta(t, 80.0, result.Accuracy, 1e-6)
}

func TestBacktestDefaultWindow(t *testing.T) {
	result := Backtest(constantHistory(60, 10), 10, DefaultSeasonality(), 0, 0)
	assert.Equal(t, 30, result.SampleSize)
}
