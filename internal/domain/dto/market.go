package dto

// PriceMove is a company's change between two price observations.
type PriceMove struct {
	CompanyID     int64    `json:"company_id"`
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name"`
	Close         *float64 `json:"close,omitempty"`
	PreviousClose *float64 `json:"previous_close,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
	Volume        *int64   `json:"volume,omitempty"`
}

// MarketSummaryResponse is the body of GET /market/summary.
type MarketSummaryResponse struct {
	ReferenceDate       Date        `json:"reference_date" swaggertype:"string"`
	LastUpdated         *Date       `json:"last_updated,omitempty" swaggertype:"string"`
	TotalCompanies      int         `json:"total_companies"`
	CompaniesWithPrices int         `json:"companies_with_prices"`
	MarketCap           float64     `json:"market_cap"`
	Gainers             int         `json:"gainers"`
	Losers              int         `json:"losers"`
	Unchanged           int         `json:"unchanged"`
	TopGainers          []PriceMove `json:"top_gainers"`
	TopLosers           []PriceMove `json:"top_losers"`
}

// MarketTrendPoint aggregates all companies for one trading date.
type MarketTrendPoint struct {
	Date         Date     `json:"date" swaggertype:"string"`
	Companies    int      `json:"companies"`
	AverageClose *float64 `json:"average_close,omitempty"`
	TotalVolume  int64    `json:"total_volume"`
	Advancing    int      `json:"advancing"`
	Declining    int      `json:"declining"`
}

// MarketTrendsResponse is the body of GET /market/trends.
type MarketTrendsResponse struct {
	Days   int                `json:"days"`
	Points []MarketTrendPoint `json:"points"`
}

// MarketLeadersResponse is the body of GET /market/leaders.
type MarketLeadersResponse struct {
	Days     int         `json:"days"`
	ByVolume []PriceMove `json:"by_volume"`
	ByGain   []PriceMove `json:"by_gain"`
	ByLoss   []PriceMove `json:"by_loss"`
}
