package models

import "time"

// AdHocProductID labels forecast results computed from a caller-supplied
// series rather than stored history.
const AdHocProductID = "uploaded-series"

// ForecastPoint is a single dated prediction. Low/High carry the Monte Carlo
// 5th/95th percentile band; the point Value is the simulation mean.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Low   float64   `json:"low"`
	High  float64   `json:"high"`
}

// ForecastResult is the full outcome of one forecasting invocation.
// Final duplicates the last point as the headline prediction.
type ForecastResult struct {
	ProductID   string          `json:"product_id"`
	Granularity string          `json:"granularity"`
	History     []SeriesPoint   `json:"history"`
	Points      []ForecastPoint `json:"forecasts"`
	Final       float64         `json:"final_prediction"`
	FinalDate   time.Time       `json:"date"`
	Low         float64         `json:"low_conf"`
	High        float64         `json:"high_conf"`
}
