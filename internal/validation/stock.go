package validation

// ValidateStock checks a daily price row: date and close are required,
// high must not be below low and volume must not be negative.
func ValidateStock(rec Record) Result {
	res := pass()

	d, err := rec.Date("date")
	switch {
	case err != nil:
		res.fail("%v", err)
	case d == nil:
		res.fail("missing field: date")
	}

	for _, key := range []string{"open", "high", "low", "close", "volume"} {
		if _, _, err := rec.lookup(key); err != nil {
			res.fail("invalid number: %s", key)
		}
	}
	if _, ok, err := rec.lookup("close"); err == nil && !ok {
		res.fail("missing field: close")
	}

	high, okH, errH := rec.lookup("high")
	low, okL, errL := rec.lookup("low")
	if errH == nil && errL == nil && okH && okL && high.LessThan(low) {
		res.fail("high %s is below low %s", high.String(), low.String())
	}
	if v, ok, err := rec.lookup("volume"); err == nil && ok {
		switch {
		case !v.IsInteger() || !v.BigInt().IsInt64():
			res.fail("invalid integer for volume: %s", v.String())
		case v.IsNegative():
			res.fail("volume must not be negative")
		}
	}
	for _, key := range []string{"open", "high", "low", "close"} {
		if v, ok, err := rec.lookup(key); err == nil && ok && v.IsNegative() {
			res.fail("%s must not be negative", key)
		}
	}
	return res
}
