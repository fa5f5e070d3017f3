package dto

import "github.com/guttosm/etmarket/internal/domain/models"

// FinancialResponse is one statement as returned by the financials endpoints.
type FinancialResponse struct {
	models.Financial
}

// GrowthMetrics holds year-over-year growth percentages against the prior year's Annual record.
// A nil value means the growth could not be computed.
type GrowthMetrics struct {
	ComparedToYear        *int     `json:"compared_to_year,omitempty"`
	RevenueGrowth         *float64 `json:"revenue_growth,omitempty"`
	NetIncomeGrowth       *float64 `json:"net_income_growth,omitempty"`
	OperatingIncomeGrowth *float64 `json:"operating_income_growth,omitempty"`
	TotalAssetsGrowth     *float64 `json:"total_assets_growth,omitempty"`
	TotalEquityGrowth     *float64 `json:"total_equity_growth,omitempty"`
}

// FinancialSummaryResponse is the body of GET /financials/{company_id}/summary.
type FinancialSummaryResponse struct {
	CompanyID      int64         `json:"company_id"`
	Year           int           `json:"year"`
	Period         string        `json:"period"`
	Revenue        *float64      `json:"revenue,omitempty"`
	NetIncome      *float64      `json:"net_income,omitempty"`
	TotalAssets    *float64      `json:"total_assets,omitempty"`
	TotalEquity    *float64      `json:"total_equity,omitempty"`
	ProfitMargin   *float64      `json:"profit_margin,omitempty"`
	ReturnOnEquity *float64      `json:"return_on_equity,omitempty"`
	CurrentRatio   *float64      `json:"current_ratio,omitempty"`
	DebtToEquity   *float64      `json:"debt_to_equity,omitempty"`
	Growth         GrowthMetrics `json:"growth"`
}
