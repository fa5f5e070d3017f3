package dto

// StockRequest is the body of POST /stocks/{company_id}.
type StockRequest struct {
	Date   Date     `json:"date" swaggertype:"string" example:"2024-05-02"`
	Open   *float64 `json:"open,omitempty"`
	High   *float64 `json:"high,omitempty"`
	Low    *float64 `json:"low,omitempty"`
	Close  *float64 `json:"close,omitempty"`
	Volume *int64   `json:"volume,omitempty"`
}

// StockResponse is one daily price with its intraday change.
type StockResponse struct {
	ID            int64    `json:"id"`
	CompanyID     int64    `json:"company_id"`
	Date          Date     `json:"date" swaggertype:"string"`
	Open          *float64 `json:"open,omitempty"`
	High          *float64 `json:"high,omitempty"`
	Low           *float64 `json:"low,omitempty"`
	Close         *float64 `json:"close,omitempty"`
	Volume        *int64   `json:"volume,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
}
