package models

import "time"

// Sale represents a single raw sales observation for a product.
// Date carries day precision; Units is non-negative.
type Sale struct {
	ProductID string
	Date      time.Time
	Units     float64
}

// SeriesPoint is one bucket of an aggregated sales series,
// labeled by the bucket start date.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
}

// ProductActivity reports the last recorded sale date for a product.
type ProductActivity struct {
	ProductID string    `json:"product_id"`
	LastSale  time.Time `json:"last_sale"`
}
