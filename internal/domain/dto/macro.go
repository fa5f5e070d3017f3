package dto

import "github.com/guttosm/etmarket/internal/domain/models"

// MacroResponse is one indicator snapshot; Date shadows the embedded timestamp.
type MacroResponse struct {
	models.MacroIndicators
	Date Date `json:"date" swaggertype:"string"`
}

// IndicatorChange compares one indicator against an earlier snapshot.
type IndicatorChange struct {
	Current       *float64 `json:"current,omitempty"`
	Previous      *float64 `json:"previous,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
}

// MacroLatestResponse is the body of GET /macro/latest.
type MacroLatestResponse struct {
	Data       MacroResponse              `json:"data"`
	ComparedTo *Date                      `json:"compared_to,omitempty" swaggertype:"string"`
	Changes    map[string]IndicatorChange `json:"changes"`
}

// IndicatorStats aggregates one indicator over a date range.
type IndicatorStats struct {
	Latest  *float64 `json:"latest,omitempty"`
	Average *float64 `json:"average,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

// MacroSummaryResponse is the body of GET /macro/summary.
type MacroSummaryResponse struct {
	From       *Date                     `json:"from,omitempty" swaggertype:"string"`
	To         *Date                     `json:"to,omitempty" swaggertype:"string"`
	Records    int                       `json:"records"`
	Indicators map[string]IndicatorStats `json:"indicators"`
}
