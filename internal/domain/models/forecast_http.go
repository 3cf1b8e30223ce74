package models

// Requests for forecasting HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastRequest struct {
	ProductID   string `query:"product_id" json:"product_id" form:"product_id" validate:"required"`
	Granularity string `query:"granularity" json:"granularity" form:"granularity" default:"daily" validate:"oneof=daily monthly yearly"`
	Steps       int    `query:"steps" json:"steps" form:"steps" default:"1" validate:"gte=1,lte=365"`
}

type SeriesPointPayload struct {
	Date  string  `json:"date" validate:"required"`
	Sales float64 `json:"sales" validate:"gte=0"`
}

type SeriesForecastRequest struct {
	Series      []SeriesPointPayload `json:"series" validate:"required,min=1,dive"`
	Granularity string               `json:"granularity" default:"daily" validate:"oneof=daily monthly yearly"`
	Steps       int                  `json:"steps" default:"1" validate:"gte=1,lte=365"`
}
