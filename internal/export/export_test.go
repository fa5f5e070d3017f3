package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func f(v float64) *float64 { return &v }

func TestLabel(t *testing.T) {
	cases := map[string]string{
		"total_assets":     "Total Assets",
		"gdp_growth":       "GDP Growth",
		"etb_usd":          "ETB/USD",
		"npl_ratio":        "NPL Ratio",
		"money_supply_m2":  "Money Supply M2",
		"company_id":       "Company ID",
		"return_on_equity": "Return On Equity",
	}
	for in, want := range cases {
		assert.Equal(t, want, Label(in), in)
	}
}

func TestParseFormat(t *testing.T) {
	got, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, got)

	got, err = ParseFormat("Excel")
	require.NoError(t, err)
	assert.Equal(t, "financials.xlsx", got.Filename("financials"))

	_, err = ParseFormat("pdf")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSelectColumns(t *testing.T) {
	available := []string{"gdp_growth", "inflation_rate", "etb_usd"}

	got, err := SelectColumns(available, []string{"etb_usd", "gdp_growth", "etb_usd"})
	require.NoError(t, err)
	assert.Equal(t, []string{"etb_usd", "gdp_growth"}, got)

	all, err := SelectColumns(available, nil)
	require.NoError(t, err)
	assert.Equal(t, available, all)

	_, err = SelectColumns(available, []string{"gdp_growth", "foo", "bar"})
	require.Error(t, err)
	ae := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Equal(t, "Invalid column(s): bar, foo", ae.Message)
	assert.Equal(t, []string{"bar", "foo"}, ae.Details)
}

func TestMacroColumns(t *testing.T) {
	cases := []struct {
		name      string
		requested []string
		want      []string
		invalid   string
	}{
		{name: "date with a metric", requested: SplitList("date,gdp_growth"), want: []string{"gdp_growth"}},
		{name: "date repeated", requested: []string{"gdp_growth", "date", "date"}, want: []string{"gdp_growth"}},
		{name: "date alone", requested: []string{"date"}, want: []string{}},
		{name: "none requested", requested: nil, want: models.MacroMetricColumns},
		{name: "unknown still rejected", requested: []string{"date", "foo"}, invalid: "Invalid column(s): foo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MacroColumns(tc.requested)
			if tc.invalid != "" {
				assert.Equal(t, tc.invalid, apperr.As(err).Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	table := MacroTable(nil, []string{})
	assert.Len(t, table.Columns, 1)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a, b", "", "c,"))
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	fs := []models.Financial{
		{CompanyID: 1, Year: 2023, Period: "Annual", Revenue: f(1500.5), TotalAssets: f(0)},
		{CompanyID: 1, Year: 2022, Period: "Annual"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, FinancialTable(fs)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Company ID", "Year", "Period", "Revenue"}, records[0][:4])
	assert.Equal(t, "1500.5", records[1][3])
	assert.Equal(t, "", records[2][3])

	idx := -1
	for i, h := range records[0] {
		if h == "Total Assets" {
			idx = i
		}
	}
	require.NotEqual(t, -1, idx)
	assert.Equal(t, "0", records[1][idx])
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, CompanyTable(nil)))
	assert.Equal(t, "ID,Name,Ticker,Industry,Sector,Description,Website,Established Date,Shares Outstanding\n", buf.String())
}

func TestWriteExcel(t *testing.T) {
	d := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	ms := []models.MacroIndicators{{Date: d, GDPGrowth: f(7.2), ETBUSD: f(57.25)}}
	table := MacroTable(ms, []string{"gdp_growth", "etb_usd", "fx_reserves"})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatExcel, table))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows("Macro")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Date", "GDP Growth", "ETB/USD", "FX Reserves"}, rows[0])
	assert.Equal(t, "2024-06-30", rows[1][0])
	assert.Equal(t, "7.2", rows[1][1])
	assert.Equal(t, "57.25", rows[1][2])
}
