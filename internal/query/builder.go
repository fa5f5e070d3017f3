package query

import (
	"fmt"
	"strings"

	"github.com/guttosm/etmarket/internal/apperr"
)

// Plan is a fully resolved query: filters, ordering and paging.
type Plan struct {
	Table   string
	Where   []string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
	Page    int
	PerPage int
}

// Build resolves params against spec.
//
// Unknown sort_by values fall back to the spec default. The primary key is
// always appended as a tiebreaker so identical inputs yield identical order.
// Filters that the spec does not declare are ignored. Inverted ranges and
// unknown directions are rejected even when params were built in code.
func Build(spec Spec, p Params) (*Plan, error) {
	if p.DateFrom != nil && p.DateTo != nil && p.DateTo.Before(*p.DateFrom) {
		return nil, apperr.Validation("invalid query parameters", "date_to must not be before date_from")
	}
	if p.YearFrom != nil && p.YearTo != nil && *p.YearTo < *p.YearFrom {
		return nil, apperr.Validation("invalid query parameters", "year_to must not be before year_from")
	}
	if p.Order != "" && p.Order != "asc" && p.Order != "desc" {
		return nil, apperr.Validation("invalid query parameters", "order must be asc or desc")
	}

	plan := &Plan{Table: spec.Table}

	bind := func(v any) string {
		plan.Args = append(plan.Args, v)
		return fmt.Sprintf("$%d", len(plan.Args))
	}

	values := map[string]any{}
	if p.Industry != "" {
		values["industry"] = p.Industry
	}
	if p.Sector != "" {
		values["sector"] = p.Sector
	}
	if p.Period != "" {
		values["period"] = p.Period
	}
	if p.CompanyID != nil {
		values["company_id"] = *p.CompanyID
	}
	if p.Year != nil {
		values["year"] = *p.Year
	}
	// fixed order keeps placeholders stable
	for _, name := range []string{"company_id", "industry", "sector", "year", "period"} {
		col, ok := spec.Filters[name]
		v, set := values[name]
		if ok && set {
			plan.Where = append(plan.Where, col+" = "+bind(v))
		}
	}

	if spec.YearColumn != "" {
		if p.YearFrom != nil {
			plan.Where = append(plan.Where, spec.YearColumn+" >= "+bind(*p.YearFrom))
		}
		if p.YearTo != nil {
			plan.Where = append(plan.Where, spec.YearColumn+" <= "+bind(*p.YearTo))
		}
	}
	if spec.DateColumn != "" {
		if p.DateFrom != nil {
			plan.Where = append(plan.Where, spec.DateColumn+" >= "+bind(*p.DateFrom))
		}
		if p.DateTo != nil {
			plan.Where = append(plan.Where, spec.DateColumn+" <= "+bind(*p.DateTo))
		}
	}

	if p.Search != "" && len(spec.Search) > 0 {
		ph := bind(escapeLike(p.Search))
		ors := make([]string, len(spec.Search))
		for i, col := range spec.Search {
			ors[i] = fmt.Sprintf("%s ILIKE '%%' || %s || '%%'", col, ph)
		}
		plan.Where = append(plan.Where, "("+strings.Join(ors, " OR ")+")")
	}

	expr, ok := spec.Sorts[p.SortBy]
	if !ok {
		expr = spec.Sorts[spec.DefaultSort]
	}
	dir := p.Order
	if dir == "" {
		dir = spec.DefaultOrder
	}
	plan.OrderBy = strings.ReplaceAll(expr, "{dir}", strings.ToUpper(dir)) + ", id ASC"

	page, perPage := p.Page, p.PerPage
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	perPage = min(perPage, MaxPerPage)
	plan.Page, plan.PerPage = page, perPage
	plan.Limit, plan.Offset = perPage, (page-1)*perPage
	return plan, nil
}

// Unpaged returns a copy of the plan reading up to max rows from the start.
func (p *Plan) Unpaged(max int) *Plan {
	cp := *p
	cp.Args = append([]any(nil), p.Args...)
	cp.Where = append([]string(nil), p.Where...)
	cp.Limit, cp.Offset, cp.Page, cp.PerPage = max, 0, 1, max
	return &cp
}

// WhereSQL renders the filter clause, or "" when unfiltered.
func (p *Plan) WhereSQL() string {
	if len(p.Where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.Where, " AND ")
}

// SelectSQL renders the paged query selecting cols. Use SelectArgs for its arguments.
func (p *Plan) SelectSQL(cols []string) string {
	n := len(p.Args)
	return fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		strings.Join(cols, ", "), p.Table, p.WhereSQL(), p.OrderBy, n+1, n+2)
}

// SelectArgs returns the filter arguments followed by limit and offset.
func (p *Plan) SelectArgs() []any {
	args := append([]any(nil), p.Args...)
	return append(args, p.Limit, p.Offset)
}

// CountSQL renders the total row count for the same filters; it uses Args.
func (p *Plan) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", p.Table, p.WhereSQL())
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises LIKE metacharacters so search terms match literally.
func escapeLike(s string) string { return likeEscaper.Replace(s) }
