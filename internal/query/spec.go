package query

// Spec is the allow-list describing how one entity may be filtered and sorted.
type Spec struct {
	Table string
	// Sorts maps a sort_by value to an ORDER BY expression; "{dir}" is replaced
	// with ASC or DESC.
	Sorts        map[string]string
	DefaultSort  string
	DefaultOrder string
	// Equality filters keyed by parameter name; the value is the column.
	Filters    map[string]string
	Search     []string
	DateColumn string
	YearColumn string
}

// periodOrdinal sorts Q1 < Q2 < Q3 < Q4 < Annual within a year.
const periodOrdinal = "CASE period WHEN 'Q1' THEN 1 WHEN 'Q2' THEN 2 WHEN 'Q3' THEN 3 WHEN 'Q4' THEN 4 ELSE 5 END"

var (
	Companies = Spec{
		Table: "companies",
		Sorts: map[string]string{
			"id":               "id {dir}",
			"name":             "name {dir}",
			"ticker":           "ticker {dir}",
			"industry":         "industry {dir}",
			"sector":           "sector {dir} NULLS LAST",
			"established_date": "established_date {dir} NULLS LAST",
			"created_at":       "created_at {dir}",
		},
		DefaultSort:  "name",
		DefaultOrder: "asc",
		Filters:      map[string]string{"industry": "industry", "sector": "sector"},
		Search:       []string{"name", "ticker", "industry", "description"},
	}

	Financials = Spec{
		Table: "financials",
		Sorts: map[string]string{
			"year":         "year {dir}, " + periodOrdinal + " {dir}",
			"revenue":      "revenue {dir} NULLS LAST",
			"net_income":   "net_income {dir} NULLS LAST",
			"total_assets": "total_assets {dir} NULLS LAST",
		},
		DefaultSort:  "year",
		DefaultOrder: "desc",
		Filters:      map[string]string{"company_id": "company_id", "year": "year", "period": "period"},
		YearColumn:   "year",
	}

	Stocks = Spec{
		Table: "stocks",
		Sorts: map[string]string{
			"date":   "date {dir}",
			"close":  "close {dir} NULLS LAST",
			"volume": "volume {dir} NULLS LAST",
		},
		DefaultSort:  "date",
		DefaultOrder: "asc",
		Filters:      map[string]string{"company_id": "company_id"},
		DateColumn:   "date",
	}

	Macro = Spec{
		Table: "macro_indicators",
		Sorts: map[string]string{
			"date": "date {dir}",
		},
		DefaultSort:  "date",
		DefaultOrder: "desc",
		DateColumn:   "date",
	}

	Audit = Spec{
		Table: "company_audit",
		Sorts: map[string]string{
			"timestamp": "timestamp {dir}",
		},
		DefaultSort:  "timestamp",
		DefaultOrder: "desc",
		Filters:      map[string]string{"company_id": "company_id"},
	}
)
