package forecast

import (
	"sort"

	"github.com/andresuchdata/autoreplenish/internal/domain"
)

// DefaultBacktestDays is the standard hold-out window size.
const DefaultBacktestDays = 30

// Backtest runs walk-forward validation: the trailing testDays points of
// history are held out, a forecast is generated over that window from the
// supplied model parameters, and the result is scored against the held-out
// actuals. History no longer than testDays yields a zero result with low
// confidence and sample size 0.
func Backtest(history []domain.SalesDataPoint, baseRate float64, seasonal [12]float64, trendRate float64, testDays int) domain.ForecastAccuracyResult {
	if testDays <= 0 {
		testDays = DefaultBacktestDays
	}
	if len(history) <= testDays {
		return domain.ForecastAccuracyResult{Confidence: domain.ConfidenceLow}
	}

	sorted := make([]domain.SalesDataPoint, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	holdout := sorted[len(sorted)-testDays:]
	generated := Generate(baseRate, seasonal, trendRate, holdout[0].Date, testDays)

	actuals := make([]float64, testDays)
	forecasts := make([]float64, testDays)
	for i := 0; i < testDays; i++ {
		actuals[i] = float64(holdout[i].UnitsSold)
		forecasts[i] = generated[i].Forecast
	}

	return Accuracy(actuals, forecasts)
}
