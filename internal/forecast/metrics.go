package forecast

import (
	"math"

	"github.com/andresuchdata/autoreplenish/internal/domain"
)

// MAPE returns the mean absolute percentage error between actuals and
// forecasts. Pairs with a zero actual are excluded from the average; if
// every actual is zero (or the inputs are empty/mismatched) it returns 0.
func MAPE(actuals, forecasts []float64) float64 {
	if len(actuals) == 0 || len(actuals) != len(forecasts) {
		return 0
	}

	var sum float64
	var n int
	for i, actual := range actuals {
		if actual == 0 {
			continue
		}
		sum += math.Abs(actual-forecasts[i]) / math.Abs(actual)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) * 100
}

// MAE returns the mean absolute error over all pairs, zeros included.
func MAE(actuals, forecasts []float64) float64 {
	if len(actuals) == 0 || len(actuals) != len(forecasts) {
		return 0
	}

	var sum float64
	for i, actual := range actuals {
		sum += math.Abs(actual - forecasts[i])
	}
	return sum / float64(len(actuals))
}

// RMSE returns the root mean squared error over all pairs.
func RMSE(actuals, forecasts []float64) float64 {
	if len(actuals) == 0 || len(actuals) != len(forecasts) {
		return 0
	}

	var sum float64
	for i, actual := range actuals {
		diff := actual - forecasts[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actuals)))
}

// Bias returns the mean of (forecast - actual). Positive means
// over-forecasting, negative means under-forecasting.
func Bias(actuals, forecasts []float64) float64 {
	if len(actuals) == 0 || len(actuals) != len(forecasts) {
		return 0
	}

	var sum float64
	for i, actual := range actuals {
		sum += forecasts[i] - actual
	}
	return sum / float64(len(actuals))
}

// Accuracy scores a forecast against actuals and derives the aggregate
// accuracy (100 - MAPE, clamped to [0, 100]) and the confidence grade.
func Accuracy(actuals, forecasts []float64) domain.ForecastAccuracyResult {
	mape := MAPE(actuals, forecasts)
	sampleSize := 0
	if len(actuals) == len(forecasts) {
		sampleSize = len(actuals)
	}

	return domain.ForecastAccuracyResult{
		MAPE:       mape,
		MAE:        MAE(actuals, forecasts),
		RMSE:       RMSE(actuals, forecasts),
		Bias:       Bias(actuals, forecasts),
		Accuracy:   clamp(100-mape, 0, 100),
		Confidence: gradeConfidence(sampleSize, mape),
		SampleSize: sampleSize,
	}
}

// gradeConfidence applies the fixed confidence bands:
// high needs >= 30 samples and MAPE <= 20; low is < 14 samples or MAPE > 40.
func gradeConfidence(sampleSize int, mape float64) domain.Confidence {
	switch {
	case sampleSize >= 30 && mape <= 20:
		return domain.ConfidenceHigh
	case sampleSize < 14 || mape > 40:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceMedium
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
