package forecast

import (
	"testing"

	"github.com/andresuchdata/autoreplenish/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMetricsPerfectForecast(t *testing.T) {
	actuals := []float64{10, 20, 30, 40, 50}

	assert.Zero(t, MAPE(actuals, actuals))
	assert.Zero(t, MAE(actuals, actuals))
	assert.Zero(t, RMSE(actuals, actuals))
	assert.Zero(t, Bias(actuals, actuals))
}

func TestMAPE(t *testing.T) {
	tests := []struct {
		name      string
		actuals   []float64
		forecasts []float64
		expected  float64
	}{
		{
			name:      "typical ten percent error",
			actuals:   []float64{100, 200, 300},
			forecasts: []float64{110, 180, 330},
			expected:  10.0,
		},
		{
			name:      "zero actuals excluded from average",
			actuals:   []float64{0, 100, 200},
			forecasts: []float64{10, 100, 200},
			expected:  0,
		},
		{
			name:      "all actuals zero",
			actuals:   []float64{0, 0, 0},
			forecasts: []float64{5, 5, 5},
			expected:  0,
		},
		{
			name:      "empty input",
			actuals:   nil,
			forecasts: nil,
			expected:  0,
		},
		{
			name:      "mismatched lengths",
			actuals:   []float64{100, 200},
			forecasts: []float64{100},
			expected:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MAPE(tt.actuals, tt.forecasts), 1e-9)
		})
	}
}

func TestMAE(t *testing.T) {
	// |100-110| + |200-180| = 30 over 2 pairs
	assert.InDelta(t, 15.0, MAE([]float64{100, 200}, []float64{110, 180}), 1e-9)
	assert.Zero(t, MAE(nil, nil))
	assert.Zero(t, MAE([]float64{1}, []float64{1, 2}))
}

func TestRMSE(t *testing.T) {
	// sqrt((100 + 400) / 2)
	assert.InDelta(t, 15.811388, RMSE([]float64{100, 200}, []float64{110, 180}), 1e-5)
	assert.Zero(t, RMSE(nil, nil))
}

func TestBias(t *testing.T) {
	assert.InDelta(t, 20.0, Bias([]float64{100, 200}, []float64{120, 220}), 1e-9)
	assert.InDelta(t, -20.0, Bias([]float64{100, 200}, []float64{80, 180}), 1e-9)
	assert.Zero(t, Bias(nil, nil))
}

func TestAccuracy(t *testing.T) {
	actuals := make([]float64, 30)
	forecasts := make([]float64, 30)
	for i := range actuals {
		actuals[i] = 100
		forecasts[i] = 110
	}

	result := Accuracy(actuals, forecasts)
	assert.InDelta(t, 10.0, result.MAPE, 1e-9)
	assert.InDelta(t, 90.0, result.Accuracy, 1e-9)
	assert.Equal(t, 30, result.SampleSize)
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
}

func TestAccuracyClampsToZero(t *testing.T) {
	// Forecast off by 3x; MAPE is 200 so accuracy floors at 0.
	result := Accuracy([]float64{10, 10}, []float64{30, 30})
	assert.Zero(t, result.Accuracy)
}

func TestGradeConfidence(t *testing.T) {
	tests := []struct {
		name       string
		sampleSize int
		mape       float64
		expected   domain.Confidence
	}{
		{"large sample low error", 30, 20, domain.ConfidenceHigh},
		{"large sample high error", 60, 25, domain.ConfidenceMedium},
		{"small sample", 13, 5, domain.ConfidenceLow},
		{"very noisy", 100, 41, domain.ConfidenceLow},
		{"mid sample mid error", 20, 30, domain.ConfidenceMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, gradeConfidence(tt.sampleSize, tt.mape))
		})
	}
}
