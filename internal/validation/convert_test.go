package validation

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Financial(t *testing.T) {
	rec := Record{"year": json.Number("2023"), "period": "Q2", "revenue": "1500.5", "net_income": 0.0}
	f, res := rec.Financial(7)
	require.True(t, res.Valid, res.Reasons)
	assert.Equal(t, int64(7), f.CompanyID)
	assert.Equal(t, 2023, f.Year)
	assert.Equal(t, models.PeriodQ2, f.Period)
	require.NotNil(t, f.Revenue)
	assert.Equal(t, 1500.5, *f.Revenue)
	require.NotNil(t, f.NetIncome)
	assert.Equal(t, 0.0, *f.NetIncome)
	assert.Nil(t, f.TotalAssets)
}

func TestRecord_FinancialDefaultsAndErrors(t *testing.T) {
	f, res := Record{"year": 2022}.Financial(1)
	require.True(t, res.Valid)
	assert.Equal(t, models.PeriodAnnual, f.Period)

	_, res = Record{"year": "20.5", "period": "Q9", "revenue": "abc"}.Financial(1)
	assert.False(t, res.Valid)
	assert.Len(t, res.Reasons, 3)
	assert.Contains(t, res.Reasons, "invalid period: Q9")
	assert.Contains(t, res.Reasons, "invalid number: revenue")
}

func TestRecord_Macro(t *testing.T) {
	m, res := Record{"date": "2024-06-30", "gdp_growth": 7.2, "etb_usd": "57.5"}.Macro()
	require.True(t, res.Valid)
	assert.Equal(t, "2024-06-30", m.Date.Format("2006-01-02"))
	assert.Equal(t, 57.5, *m.ETBUSD)

	_, res = Record{"gdp_growth": 1}.Macro()
	assert.Equal(t, []string{"missing field: date"}, res.Reasons)
}

func TestRecord_Stock(t *testing.T) {
	s, res := Record{"date": "2024-05-02", "open": 10, "close": "10.5", "volume": "1200"}.Stock(3)
	require.True(t, res.Valid)
	assert.Equal(t, int64(1200), *s.Volume)
	assert.Equal(t, 10.5, *s.Close)
	assert.Nil(t, s.High)

	_, res = Record{"date": "02/05/2024", "volume": "1.5"}.Stock(3)
	assert.False(t, res.Valid)
	assert.Len(t, res.Reasons, 2)
}

func TestRecord_RejectsValuesOutsideNumericRange(t *testing.T) {
	cases := []struct {
		name  string
		rec   Record
		key   string
		asInt bool
	}{
		{name: "json number above float range", rec: Record{"gdp_per_capita": json.Number("1e400")}, key: "gdp_per_capita"},
		{name: "decimal above float range", rec: Record{"revenue": decimal.RequireFromString("-1e500")}, key: "revenue"},
		{name: "infinite float", rec: Record{"revenue": math.Inf(1)}, key: "revenue"},
		{name: "nan float", rec: Record{"revenue": math.NaN()}, key: "revenue"},
		{name: "string above float range", rec: Record{"revenue": "1e400"}, key: "revenue"},
		{name: "volume above int64", rec: Record{"volume": json.Number("1e19")}, key: "volume", asInt: true},
		{name: "year below int64", rec: Record{"year": "-9223372036854775809"}, key: "year", asInt: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var err error
			if tc.asInt {
				_, err = tc.rec.Int(tc.key)
			} else {
				_, err = tc.rec.Float(tc.key)
			}
			assert.Error(t, err)
		})
	}

	n, err := Record{"volume": json.Number("9223372036854775807")}.Int("volume")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), *n)
}

func TestRecord_ConversionRejectsOverflow(t *testing.T) {
	_, res := Record{"date": "2024-06-30", "gdp_per_capita": json.Number("1e400")}.Macro()
	assert.Equal(t, []string{"invalid number: gdp_per_capita"}, res.Reasons)

	_, res = Record{"date": "2024-05-02", "close": 1, "volume": json.Number("1e19")}.Stock(1)
	assert.False(t, res.Valid)

	_, res = Record{"year": json.Number("1e19")}.Financial(1)
	assert.False(t, res.Valid)
}
