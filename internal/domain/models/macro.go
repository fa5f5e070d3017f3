package models

import "time"

// MacroIndicators is the snapshot of macroeconomic indicators for one date.
type MacroIndicators struct {
	ID   int64     `json:"id"`
	Date time.Time `json:"date"`

	// Real sector
	GDPGrowth              *float64 `json:"gdp_growth,omitempty"`
	GDPPerCapita           *float64 `json:"gdp_per_capita,omitempty"`
	InflationRate          *float64 `json:"inflation_rate,omitempty"`
	FoodInflation          *float64 `json:"food_inflation,omitempty"`
	InterestRate           *float64 `json:"interest_rate,omitempty"`
	UnemploymentRate       *float64 `json:"unemployment_rate,omitempty"`
	IndustrialProduction   *float64 `json:"industrial_production,omitempty"`
	AgriculturalProduction *float64 `json:"agricultural_production,omitempty"`

	// External sector
	Exports               *float64 `json:"exports,omitempty"`
	Imports               *float64 `json:"imports,omitempty"`
	TradeBalance          *float64 `json:"trade_balance,omitempty"`
	CurrentAccountBalance *float64 `json:"current_account_balance,omitempty"`
	FDIInflow             *float64 `json:"fdi_inflow,omitempty"`
	Remittances           *float64 `json:"remittances,omitempty"`

	// Foreign exchange
	FXReserves *float64 `json:"fx_reserves,omitempty"`
	ETBUSD     *float64 `json:"etb_usd,omitempty"`
	ETBEUR     *float64 `json:"etb_eur,omitempty"`
	ETBGBP     *float64 `json:"etb_gbp,omitempty"`
	ETBJPY     *float64 `json:"etb_jpy,omitempty"`
	ETBCNY     *float64 `json:"etb_cny,omitempty"`

	// Government
	GovtRevenue     *float64 `json:"govt_revenue,omitempty"`
	GovtExpenditure *float64 `json:"govt_expenditure,omitempty"`
	BudgetDeficit   *float64 `json:"budget_deficit,omitempty"`
	GovtDebt        *float64 `json:"govt_debt,omitempty"`
	TaxRevenue      *float64 `json:"tax_revenue,omitempty"`

	// Banking
	TotalDeposits       *float64 `json:"total_deposits,omitempty"`
	TotalLoans          *float64 `json:"total_loans,omitempty"`
	NPLRatio            *float64 `json:"npl_ratio,omitempty"`
	LoanToDeposit       *float64 `json:"loan_to_deposit,omitempty"`
	MoneySupplyM1       *float64 `json:"money_supply_m1,omitempty"`
	MoneySupplyM2       *float64 `json:"money_supply_m2,omitempty"`
	PrivateSectorCredit *float64 `json:"private_sector_credit,omitempty"`

	// Commodities
	CoffeePrice *float64 `json:"coffee_price,omitempty"`
	GoldPrice   *float64 `json:"gold_price,omitempty"`
	OilPrice    *float64 `json:"oil_price,omitempty"`
	WheatPrice  *float64 `json:"wheat_price,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Metrics returns the numeric columns of m in schema order.
func (m *MacroIndicators) Metrics() []Metric {
	return []Metric{
		{"gdp_growth", &m.GDPGrowth},
		{"gdp_per_capita", &m.GDPPerCapita},
		{"inflation_rate", &m.InflationRate},
		{"food_inflation", &m.FoodInflation},
		{"interest_rate", &m.InterestRate},
		{"unemployment_rate", &m.UnemploymentRate},
		{"industrial_production", &m.IndustrialProduction},
		{"agricultural_production", &m.AgriculturalProduction},
		{"exports", &m.Exports},
		{"imports", &m.Imports},
		{"trade_balance", &m.TradeBalance},
		{"current_account_balance", &m.CurrentAccountBalance},
		{"fdi_inflow", &m.FDIInflow},
		{"remittances", &m.Remittances},
		{"fx_reserves", &m.FXReserves},
		{"etb_usd", &m.ETBUSD},
		{"etb_eur", &m.ETBEUR},
		{"etb_gbp", &m.ETBGBP},
		{"etb_jpy", &m.ETBJPY},
		{"etb_cny", &m.ETBCNY},
		{"govt_revenue", &m.GovtRevenue},
		{"govt_expenditure", &m.GovtExpenditure},
		{"budget_deficit", &m.BudgetDeficit},
		{"govt_debt", &m.GovtDebt},
		{"tax_revenue", &m.TaxRevenue},
		{"total_deposits", &m.TotalDeposits},
		{"total_loans", &m.TotalLoans},
		{"npl_ratio", &m.NPLRatio},
		{"loan_to_deposit", &m.LoanToDeposit},
		{"money_supply_m1", &m.MoneySupplyM1},
		{"money_supply_m2", &m.MoneySupplyM2},
		{"private_sector_credit", &m.PrivateSectorCredit},
		{"coffee_price", &m.CoffeePrice},
		{"gold_price", &m.GoldPrice},
		{"oil_price", &m.OilPrice},
		{"wheat_price", &m.WheatPrice},
	}
}

// MacroMetricColumns lists every numeric macro column in schema order.
var MacroMetricColumns = Columns((&MacroIndicators{}).Metrics())

// KeyMacroIndicators are the headline series reported by the latest and summary views.
var KeyMacroIndicators = []string{
	"gdp_growth", "inflation_rate", "interest_rate", "etb_usd", "fx_reserves", "npl_ratio",
}
