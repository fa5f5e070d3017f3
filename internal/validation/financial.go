package validation

import (
	"github.com/shopspring/decimal"

	"github.com/guttosm/etmarket/internal/domain/models"
)

// FinancialRequired lists the keys a financial record must carry to be checked.
var FinancialRequired = []string{
	"total_assets",
	"total_liabilities",
	"total_equity",
	"gross_profit",
	"revenue",
	"cost_of_revenue",
	"total_current_assets",
	"current_ratio",
	"return_on_equity",
}

// ValidateFinancial checks accounting identities and ratio bounds of a statement.
//
// The first missing required key fails the record immediately. Otherwise every
// rule is evaluated:
//   - total_assets = total_liabilities + total_equity (±0.01)
//   - gross_profit = revenue - cost_of_revenue (±0.01)
//   - total_current_assets <= total_assets
//   - 0 <= current_ratio <= 5
//   - -100 <= return_on_equity <= 100
func ValidateFinancial(rec Record) Result {
	res := pass()
	for _, key := range FinancialRequired {
		_, ok, err := rec.lookup(key)
		if err != nil {
			res.fail("invalid number: %s", key)
			return res
		}
		if !ok {
			res.fail("missing field: %s", key)
			return res
		}
	}

	checkNumbers(&res, rec, models.FinancialMetricColumns, FinancialRequired)

	get := func(k string) decimal.Decimal {
		d, _, _ := rec.lookup(k)
		return d
	}

	assets := get("total_assets")
	liabilities := get("total_liabilities")
	equity := get("total_equity")
	if !withinTolerance(assets, liabilities.Add(equity)) {
		res.fail("balance sheet mismatch: total_assets %s != total_liabilities + total_equity %s",
			assets.String(), liabilities.Add(equity).String())
	}

	gross := get("gross_profit")
	revenue := get("revenue")
	cost := get("cost_of_revenue")
	if !withinTolerance(gross, revenue.Sub(cost)) {
		res.fail("gross profit mismatch: gross_profit %s != revenue - cost_of_revenue %s",
			gross.String(), revenue.Sub(cost).String())
	}

	if current := get("total_current_assets"); current.GreaterThan(assets) {
		res.fail("total_current_assets %s exceeds total_assets %s", current.String(), assets.String())
	}

	checkRange(&res, rec, "current_ratio", 0, 5)
	checkRange(&res, rec, "return_on_equity", -100, 100)
	return res
}
