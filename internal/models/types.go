package models

import (
	"encoding/json"
	"math"
)

// Company is one constituent of an index catalog
type Company struct {
	Symbol string `json:"symbol" firestore:"symbol"`
	Logo   string `json:"logo" firestore:"logo"`
}

// PredictRequest is the body sent to the prediction service
type PredictRequest struct {
	Symbol string `json:"symbol"`
	Days   int    `json:"days"`
}

// PredictResponse is the payload returned by the prediction service.
// Exactly one of the fields is expected to be set.
type PredictResponse struct {
	Predictions ForecastSeries `json:"predictions"`
	Error       string         `json:"error"`
}

// ForecastPoint is a single predicted price for a calendar date
type ForecastPoint struct {
	Date           string  `json:"date"`
	PredictedPrice float64 `json:"predicted_price"`
}

// ForecastSeries is ordered as returned by the service (ascending date)
type ForecastSeries []ForecastPoint

// ChartPoint is the shape handed to chart renderers
type ChartPoint struct {
	Date           string  `json:"date"`
	PredictedPrice float64 `json:"predictedPrice"`
}

// Number is a float that serializes NaN and Inf as null
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// IndexInfo describes an available index
type IndexInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int    `json:"size"`
}

// SelectionView is the serialized form of a session's selection
type SelectionView struct {
	Index       string `json:"index"`
	Symbol      string `json:"symbol"`
	BuyPrice    Number `json:"buyPrice"`
	ShareCount  Number `json:"shareCount"`
	HorizonDays Number `json:"horizonDays"`
}

// MetricsSummary holds the result card figures rendered to 2 decimals
type MetricsSummary struct {
	Price6Months    string `json:"price6Months"`
	Price1Year      string `json:"price1Year"`
	FinalPrice      string `json:"finalPrice"`
	TotalInvestment string `json:"totalInvestment"`
	ProfitLoss      string `json:"profitLoss"`
	Gain            bool   `json:"gain"`
	Valid           bool   `json:"valid"`
}

// SessionView is everything a client needs to render one session
type SessionView struct {
	ID        string         `json:"id"`
	Selection SelectionView  `json:"selection"`
	Companies []Company      `json:"companies"`
	Status    string         `json:"status"`
	Loading   bool           `json:"loading"`
	Error     string         `json:"error,omitempty"`
	Summary   MetricsSummary `json:"summary"`
	Chart     []ChartPoint   `json:"chart,omitempty"`
}

// SelectionUpdate is a partial selection change. Numeric fields accept
// either JSON numbers or raw strings as typed by the user.
type SelectionUpdate struct {
	Index       *string          `json:"index,omitempty"`
	Symbol      *string          `json:"symbol,omitempty"`
	BuyPrice    *json.RawMessage `json:"buyPrice,omitempty"`
	ShareCount  *json.RawMessage `json:"shareCount,omitempty"`
	HorizonDays *json.RawMessage `json:"horizonDays,omitempty"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
