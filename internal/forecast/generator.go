package forecast

import (
	"math"
	"time"
)

// Point is one day of a generated forecast series
type Point struct {
	Date     time.Time `json:"date"`
	Forecast float64   `json:"forecast"`
}

// Generate composes a day-by-day forecast from a base daily rate, a monthly
// seasonal profile, and a compounding trend rate. For day offset i the trend
// multiplier is (1+trendRate)^floor(i/30) and the seasonal multiplier is the
// one of that calendar month. Values are rounded to 2 decimal places. The
// generator is pure: same inputs always yield the same series.
func Generate(baseRate float64, seasonal [12]float64, trendRate float64, start time.Time, days int) []Point {
	if days <= 0 {
		return nil
	}

	points := make([]Point, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		monthsFromStart := i / 30
		trendMultiplier := math.Pow(1+trendRate, float64(monthsFromStart))
		value := baseRate * seasonal[int(date.Month())-1] * trendMultiplier
		points = append(points, Point{
			Date:     date,
			Forecast: round2(value),
		})
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
