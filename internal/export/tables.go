package export

import (
	"strings"

	"github.com/guttosm/etmarket/internal/domain/models"
)

var companyKeys = []string{
	"id", "name", "ticker", "industry", "sector", "description", "website",
	"established_date", "shares_outstanding",
}

// CompanyTable exports the company list.
func CompanyTable(cs []models.Company) Table {
	t := Table{Sheet: "Companies", Columns: Columns(companyKeys...)}
	for _, c := range cs {
		t.Rows = append(t.Rows, []any{
			c.ID, c.Name, c.Ticker, c.Industry, c.Sector, c.Description, c.Website,
			c.EstablishedDate, c.SharesOutstanding,
		})
	}
	return t
}

// FinancialTable exports statements with every metric column.
func FinancialTable(fs []models.Financial) Table {
	keys := append([]string{"company_id", "year", "period"}, models.FinancialMetricColumns...)
	t := Table{Sheet: "Financials", Columns: Columns(keys...)}
	for i := range fs {
		row := []any{fs[i].CompanyID, fs[i].Year, fs[i].Period}
		for _, m := range fs[i].Metrics() {
			row = append(row, *m.Value)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// MacroColumns resolves requested macro variables into metric columns for
// MacroTable. date is accepted as a variable and dropped since it always
// leads; asking for date alone yields no metric columns.
func MacroColumns(requested []string) ([]string, error) {
	var metrics []string
	for _, r := range requested {
		if strings.TrimSpace(r) != "date" {
			metrics = append(metrics, r)
		}
	}
	if len(requested) > 0 && len(metrics) == 0 {
		return []string{}, nil
	}
	return SelectColumns(models.MacroMetricColumns, metrics)
}

// MacroTable exports the selected indicator columns; date always leads.
func MacroTable(ms []models.MacroIndicators, columns []string) Table {
	t := Table{Sheet: "Macro", Columns: Columns(append([]string{"date"}, columns...)...)}
	for i := range ms {
		values := models.MetricMap(ms[i].Metrics())
		row := []any{ms[i].Date}
		for _, c := range columns {
			row = append(row, values[c])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
