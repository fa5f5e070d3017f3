package validation

import (
	"fmt"
	"strings"

	"github.com/guttosm/etmarket/internal/domain/models"
)

// Int returns the value of key as an integer; nil when absent. Fractional
// values are rejected.
func (r Record) Int(key string) (*int64, error) {
	d, ok, err := r.lookup(key)
	if err != nil {
		return nil, fmt.Errorf("invalid number for %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	if !d.IsInteger() || !d.BigInt().IsInt64() {
		return nil, fmt.Errorf("invalid integer for %s: %s", key, d.String())
	}
	n := d.IntPart()
	return &n, nil
}

// String returns the trimmed text value of key, or "" when absent.
func (r Record) String(key string) string {
	switch x := r[key].(type) {
	case string:
		return strings.TrimSpace(x)
	case *string:
		if x != nil {
			return strings.TrimSpace(*x)
		}
	case fmt.Stringer:
		return x.String()
	}
	return ""
}

// fillMetrics assigns every metric column present in r.
func (r Record) fillMetrics(metrics []models.Metric, res *Result) {
	for _, m := range metrics {
		v, err := r.Float(m.Column)
		if err != nil {
			res.fail("invalid number: %s", m.Column)
			continue
		}
		*m.Value = v
	}
}

// Financial builds a statement for companyID from r. Year and a known period are required.
func (r Record) Financial(companyID int64) (*models.Financial, Result) {
	res := pass()
	f := &models.Financial{CompanyID: companyID}

	year, err := r.Int("year")
	switch {
	case err != nil:
		res.fail("%v", err)
	case year == nil:
		res.fail("missing field: year")
	case *year < 1900 || *year > 2100:
		res.fail("year out of range [1900, 2100]: %d", *year)
	default:
		f.Year = int(*year)
	}

	f.Period = r.String("period")
	if f.Period == "" {
		f.Period = models.PeriodAnnual
	}
	if !models.ValidPeriod(f.Period) {
		res.fail("invalid period: %s", f.Period)
	}

	r.fillMetrics(f.Metrics(), &res)
	return f, res
}

// Macro builds an indicator snapshot from r. The date is required.
func (r Record) Macro() (*models.MacroIndicators, Result) {
	res := pass()
	m := &models.MacroIndicators{}
	d, err := r.Date("date")
	switch {
	case err != nil:
		res.fail("%v", err)
	case d == nil:
		res.fail("missing field: date")
	default:
		m.Date = *d
	}
	r.fillMetrics(m.Metrics(), &res)
	return m, res
}

// Stock builds a daily price for companyID from r.
func (r Record) Stock(companyID int64) (*models.Stock, Result) {
	res := pass()
	s := &models.Stock{CompanyID: companyID}
	if d, err := r.Date("date"); err == nil && d != nil {
		s.Date = *d
	} else if err != nil {
		res.fail("%v", err)
	} else {
		res.fail("missing field: date")
	}
	prices := []models.Metric{{Column: "open", Value: &s.Open}, {Column: "high", Value: &s.High}, {Column: "low", Value: &s.Low}, {Column: "close", Value: &s.Close}}
	r.fillMetrics(prices, &res)
	vol, err := r.Int("volume")
	if err != nil {
		res.fail("%v", err)
	}
	s.Volume = vol
	return s, res
}
