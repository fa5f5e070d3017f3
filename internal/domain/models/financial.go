package models

import "time"

// Reporting periods accepted for financial statements.
const (
	PeriodAnnual = "Annual"
	PeriodQ1     = "Q1"
	PeriodQ2     = "Q2"
	PeriodQ3     = "Q3"
	PeriodQ4     = "Q4"
)

// ValidPeriod reports whether p is a known reporting period.
func ValidPeriod(p string) bool {
	switch p {
	case PeriodAnnual, PeriodQ1, PeriodQ2, PeriodQ3, PeriodQ4:
		return true
	}
	return false
}

// Financial is one statement of a company for a (year, period).
type Financial struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	Year      int    `json:"year"`
	Period    string `json:"period"`

	// Income statement
	Revenue           *float64 `json:"revenue,omitempty"`
	CostOfRevenue     *float64 `json:"cost_of_revenue,omitempty"`
	GrossProfit       *float64 `json:"gross_profit,omitempty"`
	OperatingExpenses *float64 `json:"operating_expenses,omitempty"`
	OperatingIncome   *float64 `json:"operating_income,omitempty"`
	InterestExpense   *float64 `json:"interest_expense,omitempty"`
	ProfitBeforeTax   *float64 `json:"profit_before_tax,omitempty"`
	NetIncome         *float64 `json:"net_income,omitempty"`

	// Balance sheet
	CashEquivalents         *float64 `json:"cash_equivalents,omitempty"`
	AccountsReceivable      *float64 `json:"accounts_receivable,omitempty"`
	Inventory               *float64 `json:"inventory,omitempty"`
	TotalCurrentAssets      *float64 `json:"total_current_assets,omitempty"`
	FixedAssets             *float64 `json:"fixed_assets,omitempty"`
	TotalAssets             *float64 `json:"total_assets,omitempty"`
	AccountsPayable         *float64 `json:"accounts_payable,omitempty"`
	ShortTermDebt           *float64 `json:"short_term_debt,omitempty"`
	TotalCurrentLiabilities *float64 `json:"total_current_liabilities,omitempty"`
	LongTermDebt            *float64 `json:"long_term_debt,omitempty"`
	TotalLiabilities        *float64 `json:"total_liabilities,omitempty"`
	TotalEquity             *float64 `json:"total_equity,omitempty"`

	// Cash flow
	OperatingCashFlow *float64 `json:"operating_cash_flow,omitempty"`
	InvestingCashFlow *float64 `json:"investing_cash_flow,omitempty"`
	FinancingCashFlow *float64 `json:"financing_cash_flow,omitempty"`
	NetCashFlow       *float64 `json:"net_cash_flow,omitempty"`

	// Ratios
	CurrentRatio   *float64 `json:"current_ratio,omitempty"`
	DebtToEquity   *float64 `json:"debt_to_equity,omitempty"`
	ReturnOnEquity *float64 `json:"return_on_equity,omitempty"`
	ReturnOnAssets *float64 `json:"return_on_assets,omitempty"`
	ProfitMargin   *float64 `json:"profit_margin,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	UpdatedBy *int64    `json:"updated_by,omitempty"`
}

// Metrics returns the numeric columns of f in schema order.
func (f *Financial) Metrics() []Metric {
	return []Metric{
		{"revenue", &f.Revenue},
		{"cost_of_revenue", &f.CostOfRevenue},
		{"gross_profit", &f.GrossProfit},
		{"operating_expenses", &f.OperatingExpenses},
		{"operating_income", &f.OperatingIncome},
		{"interest_expense", &f.InterestExpense},
		{"profit_before_tax", &f.ProfitBeforeTax},
		{"net_income", &f.NetIncome},
		{"cash_equivalents", &f.CashEquivalents},
		{"accounts_receivable", &f.AccountsReceivable},
		{"inventory", &f.Inventory},
		{"total_current_assets", &f.TotalCurrentAssets},
		{"fixed_assets", &f.FixedAssets},
		{"total_assets", &f.TotalAssets},
		{"accounts_payable", &f.AccountsPayable},
		{"short_term_debt", &f.ShortTermDebt},
		{"total_current_liabilities", &f.TotalCurrentLiabilities},
		{"long_term_debt", &f.LongTermDebt},
		{"total_liabilities", &f.TotalLiabilities},
		{"total_equity", &f.TotalEquity},
		{"operating_cash_flow", &f.OperatingCashFlow},
		{"investing_cash_flow", &f.InvestingCashFlow},
		{"financing_cash_flow", &f.FinancingCashFlow},
		{"net_cash_flow", &f.NetCashFlow},
		{"current_ratio", &f.CurrentRatio},
		{"debt_to_equity", &f.DebtToEquity},
		{"return_on_equity", &f.ReturnOnEquity},
		{"return_on_assets", &f.ReturnOnAssets},
		{"profit_margin", &f.ProfitMargin},
	}
}

// FinancialMetricColumns lists every numeric financial column in schema order.
var FinancialMetricColumns = Columns((&Financial{}).Metrics())
