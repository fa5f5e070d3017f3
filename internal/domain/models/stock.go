package models

import "time"

// Stock is one daily OHLCV price record.
type Stock struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Date      time.Time `json:"date"`
	Open      *float64  `json:"open,omitempty"`
	High      *float64  `json:"high,omitempty"`
	Low       *float64  `json:"low,omitempty"`
	Close     *float64  `json:"close,omitempty"`
	Volume    *int64    `json:"volume,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
