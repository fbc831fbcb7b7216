package services

import (
	"math"

	"github.com/shopspring/decimal"

	"stock-predictor/internal/models"
)

// Positions of the 6-month and 1-year points in a daily 365-point series.
// Shorter or non-daily series read 0 at these positions.
const (
	sixMonthIndex = 180
	oneYearIndex  = 364
)

// Metrics are the result card figures for a forecast and a trade
type Metrics struct {
	Price6Months    float64
	Price1Year      float64
	FinalPrice      float64
	TotalInvestment float64
	ProfitLoss      float64
}

// DeriveMetrics computes the summary figures. It is pure and cheap enough to
// run on every read.
func DeriveMetrics(series models.ForecastSeries, sel Selection) Metrics {
	finalPrice := 0.0
	if len(series) > 0 {
		finalPrice = priceAt(series, len(series)-1)
	}

	total := sel.BuyPrice * sel.ShareCount
	return Metrics{
		Price6Months:    priceAt(series, sixMonthIndex),
		Price1Year:      priceAt(series, oneYearIndex),
		FinalPrice:      finalPrice,
		TotalInvestment: total,
		ProfitLoss:      finalPrice*sel.ShareCount - total,
	}
}

func priceAt(series models.ForecastSeries, i int) float64 {
	if i >= len(series) {
		return 0
	}
	p := series[i].PredictedPrice
	if !isFinite(p) {
		return 0
	}
	return p
}

// IsGain treats break-even as a gain; NaN is never a gain
func (m Metrics) IsGain() bool {
	return m.ProfitLoss >= 0
}

// Valid reports whether every figure is a finite number
func (m Metrics) Valid() bool {
	for _, v := range []float64{m.Price6Months, m.Price1Year, m.FinalPrice, m.TotalInvestment, m.ProfitLoss} {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Summary renders the figures for display
func (m Metrics) Summary() models.MetricsSummary {
	gain := m.IsGain()
	profit := FormatMoney(m.ProfitLoss)
	if gain {
		profit = "+" + profit
	}
	return models.MetricsSummary{
		Price6Months:    FormatMoney(m.Price6Months),
		Price1Year:      FormatMoney(m.Price1Year),
		FinalPrice:      FormatMoney(m.FinalPrice),
		TotalInvestment: FormatMoney(m.TotalInvestment),
		ProfitLoss:      profit,
		Gain:            gain,
		Valid:           m.Valid(),
	}
}

// FormatMoney renders exactly two decimals; non-finite values render as 0
func FormatMoney(v float64) string {
	if !isFinite(v) {
		v = 0
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
