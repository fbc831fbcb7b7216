package services

import "stock-predictor/internal/models"

// DefaultChartWindow bounds how many points are handed to the chart
const DefaultChartWindow = 30

// WindowForChart returns the first limit points of the series in order.
// A negative limit yields no points.
func WindowForChart(series models.ForecastSeries, limit int) []models.ChartPoint {
	if limit < 0 {
		limit = 0
	}
	if limit > len(series) {
		limit = len(series)
	}

	points := make([]models.ChartPoint, 0, limit)
	for _, p := range series[:limit] {
		points = append(points, models.ChartPoint{Date: p.Date, PredictedPrice: p.PredictedPrice})
	}
	return points
}
