// Package query turns request parameters into deterministic, injection-safe
// SQL plans for the list endpoints.
//
// Identifiers (tables, columns, sort expressions) only ever come from the
// per-entity Spec allow-lists; user supplied values are always bound as
// positional $n arguments.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/domain/models"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100

	dateLayout = "2006-01-02"
)

// Params is the typed parameter set shared by every list and export endpoint.
// Zero values mean "not provided".
type Params struct {
	Industry  string
	Sector    string
	Search    string
	Period    string
	CompanyID *int64
	Year      *int
	YearFrom  *int
	YearTo    *int
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    string
	Order     string
	Page      int
	PerPage   int
}

// ParseParams reads and type-checks query string values.
//
// Aliases: start_date/end_date for date_from/date_to, sort for order and
// limit for per_page. per_page (or limit) above MaxPerPage is capped.
// Every malformed value is reported in a single validation error.
func ParseParams(v url.Values) (Params, error) {
	p := Params{
		Industry: strings.TrimSpace(v.Get("industry")),
		Sector:   strings.TrimSpace(v.Get("sector")),
		Search:   strings.TrimSpace(v.Get("search")),
		Period:   strings.TrimSpace(v.Get("period")),
		SortBy:   strings.TrimSpace(v.Get("sort_by")),
		Page:     DefaultPage,
		PerPage:  DefaultPerPage,
	}
	var problems []string
	bad := func(format string, args ...any) { problems = append(problems, fmt.Sprintf(format, args...)) }

	if p.Period != "" && !models.ValidPeriod(p.Period) {
		bad("period must be one of Annual, Q1, Q2, Q3, Q4")
	}

	order := first(v, "order", "sort")
	switch strings.ToLower(order) {
	case "":
	case "asc", "desc":
		p.Order = strings.ToLower(order)
	default:
		bad("order must be asc or desc")
	}

	if s := v.Get("company_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id < 1 {
			bad("company_id must be a positive integer")
		} else {
			p.CompanyID = &id
		}
	}

	p.Year = parseYear(v.Get("year"), "year", bad)
	p.YearFrom = parseYear(v.Get("year_from"), "year_from", bad)
	p.YearTo = parseYear(v.Get("year_to"), "year_to", bad)
	if p.YearFrom != nil && p.YearTo != nil && *p.YearTo < *p.YearFrom {
		bad("year_to must not be before year_from")
	}

	p.DateFrom = parseDate(first(v, "date_from", "start_date"), "date_from", bad)
	p.DateTo = parseDate(first(v, "date_to", "end_date"), "date_to", bad)
	if p.DateFrom != nil && p.DateTo != nil && p.DateTo.Before(*p.DateFrom) {
		bad("date_to must not be before date_from")
	}

	if s := v.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			bad("page must be an integer >= 1")
		} else {
			p.Page = n
		}
	}
	if s := first(v, "per_page", "limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			bad("per_page must be an integer >= 1")
		} else {
			p.PerPage = min(n, MaxPerPage)
		}
	}

	if len(problems) > 0 {
		return Params{}, apperr.Validation("invalid query parameters", problems...)
	}
	return p, nil
}

// ParseDays reads a "days" window bounded to [1, max].
func ParseDays(v url.Values, def, max int) (int, error) {
	s := v.Get("days")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > max {
		return 0, apperr.Validation("invalid query parameters", fmt.Sprintf("days must be an integer between 1 and %d", max))
	}
	return n, nil
}

// ParseDate reads an optional YYYY-MM-DD parameter.
func ParseDate(v url.Values, key string) (*time.Time, error) {
	var problems []string
	d := parseDate(v.Get(key), key, func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	})
	if len(problems) > 0 {
		return nil, apperr.Validation("invalid query parameters", problems...)
	}
	return d, nil
}

func first(v url.Values, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(v.Get(k)); s != "" {
			return s
		}
	}
	return ""
}

func parseYear(s, name string, bad func(string, ...any)) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1800 || n > 9999 {
		bad("%s must be a four digit year", name)
		return nil
	}
	return &n
}

func parseDate(s, name string, bad func(string, ...any)) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		bad("%s must be a date in YYYY-MM-DD format", name)
		return nil
	}
	return &t
}
