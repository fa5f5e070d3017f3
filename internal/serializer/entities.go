package serializer

import (
	"time"

	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/domain/models"
)

func Company(c models.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:                c.ID,
		Name:              c.Name,
		Ticker:            c.Ticker,
		Industry:          c.Industry,
		Sector:            c.Sector,
		Description:       c.Description,
		Website:           c.Website,
		EstablishedDate:   dto.DatePtr(c.EstablishedDate),
		SharesOutstanding: c.SharesOutstanding,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func Companies(cs []models.Company) []dto.CompanyResponse {
	out := make([]dto.CompanyResponse, len(cs))
	for i, c := range cs {
		out[i] = Company(c)
	}
	return out
}

func Financial(f models.Financial) dto.FinancialResponse {
	return dto.FinancialResponse{Financial: f}
}

func Financials(fs []models.Financial) []dto.FinancialResponse {
	out := make([]dto.FinancialResponse, len(fs))
	for i, f := range fs {
		out[i] = Financial(f)
	}
	return out
}

// FinancialSummary condenses latest and computes growth against previous.
// Growth is only reported between Annual statements of consecutive years.
func FinancialSummary(latest models.Financial, previous *models.Financial) dto.FinancialSummaryResponse {
	resp := dto.FinancialSummaryResponse{
		CompanyID:      latest.CompanyID,
		Year:           latest.Year,
		Period:         latest.Period,
		Revenue:        latest.Revenue,
		NetIncome:      latest.NetIncome,
		TotalAssets:    latest.TotalAssets,
		TotalEquity:    latest.TotalEquity,
		ProfitMargin:   latest.ProfitMargin,
		ReturnOnEquity: latest.ReturnOnEquity,
		CurrentRatio:   latest.CurrentRatio,
		DebtToEquity:   latest.DebtToEquity,
	}
	if previous == nil || latest.Period != models.PeriodAnnual || previous.Period != models.PeriodAnnual ||
		previous.CompanyID != latest.CompanyID || previous.Year != latest.Year-1 {
		return resp
	}
	year := previous.Year
	resp.Growth = dto.GrowthMetrics{
		ComparedToYear:        &year,
		RevenueGrowth:         Growth(latest.Revenue, previous.Revenue),
		NetIncomeGrowth:       Growth(latest.NetIncome, previous.NetIncome),
		OperatingIncomeGrowth: Growth(latest.OperatingIncome, previous.OperatingIncome),
		TotalAssetsGrowth:     Growth(latest.TotalAssets, previous.TotalAssets),
		TotalEquityGrowth:     Growth(latest.TotalEquity, previous.TotalEquity),
	}
	return resp
}

// Stock includes the intraday change (close - open) / open in percent.
func Stock(s models.Stock) dto.StockResponse {
	return dto.StockResponse{
		ID:            s.ID,
		CompanyID:     s.CompanyID,
		Date:          dto.NewDate(s.Date),
		Open:          s.Open,
		High:          s.High,
		Low:           s.Low,
		Close:         s.Close,
		Volume:        s.Volume,
		ChangePercent: PercentChange(s.Close, s.Open),
	}
}

func Stocks(ss []models.Stock) []dto.StockResponse {
	out := make([]dto.StockResponse, len(ss))
	for i, s := range ss {
		out[i] = Stock(s)
	}
	return out
}

func Macro(m models.MacroIndicators) dto.MacroResponse {
	return dto.MacroResponse{MacroIndicators: m, Date: dto.NewDate(m.Date)}
}

func Macros(ms []models.MacroIndicators) []dto.MacroResponse {
	out := make([]dto.MacroResponse, len(ms))
	for i, m := range ms {
		out[i] = Macro(m)
	}
	return out
}

// MonthlyLookback is how far back the comparison snapshot of MacroLatest must be.
const MonthlyLookback = 30 * 24 * time.Hour

// MacroLatest compares the key indicators of latest with prior. prior must be
// dated at least MonthlyLookback before latest, otherwise it is ignored.
func MacroLatest(latest models.MacroIndicators, prior *models.MacroIndicators) dto.MacroLatestResponse {
	resp := dto.MacroLatestResponse{
		Data:    Macro(latest),
		Changes: make(map[string]dto.IndicatorChange, len(models.KeyMacroIndicators)),
	}
	if prior != nil && latest.Date.Sub(prior.Date) < MonthlyLookback {
		prior = nil
	}
	cur := models.MetricMap(latest.Metrics())
	var prev map[string]*float64
	if prior != nil {
		prev = models.MetricMap(prior.Metrics())
		resp.ComparedTo = dto.DatePtr(&prior.Date)
	}
	for _, key := range models.KeyMacroIndicators {
		ch := dto.IndicatorChange{Current: cur[key]}
		if prev != nil {
			ch.Previous = prev[key]
			ch.Change = roundPtr(Difference(cur[key], prev[key]))
			ch.ChangePercent = PercentChange(cur[key], prev[key])
		}
		resp.Changes[key] = ch
	}
	return resp
}

// Page wraps items with pagination metadata.
func Page[T any](items []T, total, page, perPage int) dto.ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return dto.ListResponse[T]{Data: items, Pagination: dto.NewPagination(total, page, perPage)}
}
