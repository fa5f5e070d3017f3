// Package validation checks financial statements, macro snapshots, price rows
// and company payloads before they are persisted.
//
// Validators never mutate their input. They return a Result listing every
// violated rule so that callers can report all problems at once.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is a flat field -> value mapping as produced by CSV rows or JSON bodies.
// Supported value types: float64, float32, int, int64, *float64, *int64,
// json.Number, decimal.Decimal, numeric strings and nil.
type Record map[string]any

// Result is the outcome of a validation run.
type Result struct {
	Valid   bool     `json:"valid"`
	Reasons []string `json:"reasons,omitempty"`
}

func (r *Result) fail(format string, args ...any) {
	r.Valid = false
	r.Reasons = append(r.Reasons, fmt.Sprintf(format, args...))
}

func pass() Result { return Result{Valid: true} }

// tolerance is the maximum absolute difference accepted by accounting identities.
var tolerance = decimal.RequireFromString("0.01")

// errNotFinite is returned for values that do not fit a float64.
var errNotFinite = errors.New("value is not a finite number")

// lookup returns the numeric value of key. present is false when the key is
// absent, nil, a nil pointer or an empty string. Values outside the float64
// range are rejected so nothing stored can become ±Inf or NaN.
func (r Record) lookup(key string) (v decimal.Decimal, present bool, err error) {
	v, present, err = r.lookupRaw(key)
	if err != nil || !present {
		return v, present, err
	}
	if f := v.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, false, errNotFinite
	}
	return v, true, nil
}

func (r Record) lookupRaw(key string) (decimal.Decimal, bool, error) {
	raw, ok := r[key]
	if !ok || raw == nil {
		return decimal.Zero, false, nil
	}
	switch x := raw.(type) {
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return decimal.Zero, false, errNotFinite
		}
		return decimal.NewFromFloat(x), true, nil
	case float32:
		if math.IsInf(float64(x), 0) || math.IsNaN(float64(x)) {
			return decimal.Zero, false, errNotFinite
		}
		return decimal.NewFromFloat32(x), true, nil
	case int:
		return decimal.NewFromInt(int64(x)), true, nil
	case int64:
		return decimal.NewFromInt(x), true, nil
	case *float64:
		if x == nil {
			return decimal.Zero, false, nil
		}
		if math.IsInf(*x, 0) || math.IsNaN(*x) {
			return decimal.Zero, false, errNotFinite
		}
		return decimal.NewFromFloat(*x), true, nil
	case *int64:
		if x == nil {
			return decimal.Zero, false, nil
		}
		return decimal.NewFromInt(*x), true, nil
	case decimal.Decimal:
		return x, true, nil
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil, err
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, false, nil
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return decimal.Zero, false, err
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil, err
	default:
		return decimal.Zero, false, fmt.Errorf("unsupported type %T", raw)
	}
}

// Float returns the value of key as *float64; nil when absent.
func (r Record) Float(key string) (*float64, error) {
	d, ok, err := r.lookup(key)
	if err != nil {
		return nil, fmt.Errorf("invalid number for %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	f := d.InexactFloat64()
	return &f, nil
}

// Date returns the value of key parsed as YYYY-MM-DD; nil when absent.
func (r Record) Date(key string) (*time.Time, error) {
	raw, ok := r[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch x := raw.(type) {
	case time.Time:
		return &x, nil
	case *time.Time:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("invalid date for %s: expected YYYY-MM-DD", key)
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("invalid date for %s: unsupported type %T", key, raw)
	}
}

// checkRange records a failure when key is present and outside [min, max].
// Absent values are skipped.
func checkRange(res *Result, rec Record, key string, min, max float64) {
	v, ok, err := rec.lookup(key)
	if err != nil {
		res.fail("invalid number: %s", key)
		return
	}
	if !ok {
		return
	}
	if v.LessThan(decimal.NewFromFloat(min)) || v.GreaterThan(decimal.NewFromFloat(max)) {
		res.fail("%s out of range [%g, %g]: %s", key, min, max, v.String())
	}
}

// checkNumbers records an invalid number for every key in keys that is
// present but unparseable, skipping those listed in seen.
func checkNumbers(res *Result, rec Record, keys, seen []string) {
	for _, key := range keys {
		if slices.Contains(seen, key) {
			continue
		}
		if _, _, err := rec.lookup(key); err != nil {
			res.fail("invalid number: %s", key)
		}
	}
}

// withinTolerance reports whether |a - b| <= 0.01.
func withinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
