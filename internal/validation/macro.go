package validation

import "github.com/guttosm/etmarket/internal/domain/models"

// MacroRequired lists the fields every macro snapshot must carry with a non-null value.
var MacroRequired = []string{"date", "gdp_growth", "inflation_rate", "interest_rate", "etb_usd"}

type bound struct {
	key      string
	min, max float64
}

// macroBounds are inclusive plausibility ranges; absent fields are skipped.
var macroBounds = []bound{
	{"gdp_growth", -15, 15},
	{"inflation_rate", 0, 50},
	{"interest_rate", 0, 20},
	{"npl_ratio", 0, 15},
	{"etb_usd", 20, 150},
	{"fx_reserves", 1000, 10000},
}

// ValidateMacro checks required fields, plausibility ranges and the trade
// balance identity (trade_balance = exports - imports ±0.01) when all three
// are present.
func ValidateMacro(rec Record) Result {
	res := pass()

	for _, key := range MacroRequired {
		if key == "date" {
			d, err := rec.Date(key)
			switch {
			case err != nil:
				res.fail("%v", err)
			case d == nil:
				res.fail("missing field: date")
			}
			continue
		}
		_, ok, err := rec.lookup(key)
		if err != nil {
			res.fail("invalid number: %s", key)
			continue
		}
		if !ok {
			res.fail("missing field: %s", key)
		}
	}

	checkNumbers(&res, rec, models.MacroMetricColumns, MacroRequired)

	for _, b := range macroBounds {
		checkRange(&res, rec, b.key, b.min, b.max)
	}

	exports, okX, errX := rec.lookup("exports")
	imports, okM, errM := rec.lookup("imports")
	balance, okB, errB := rec.lookup("trade_balance")
	if errX == nil && errM == nil && errB == nil && okX && okM && okB {
		if !withinTolerance(balance, exports.Sub(imports)) {
			res.fail("trade balance mismatch: trade_balance %s != exports - imports %s",
				balance.String(), exports.Sub(imports).String())
		}
	}
	return res
}
