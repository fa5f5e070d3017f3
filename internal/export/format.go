// Package export renders filtered result sets as CSV or Excel downloads.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/guttosm/etmarket/internal/apperr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format is a download file type.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// ParseFormat accepts "csv" (also the default for "") and "excel"/"xlsx".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	default:
		return "", apperr.Validation("unsupported export format", fmt.Sprintf("format must be csv or excel, got %q", s))
	}
}

func (f Format) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return "csv"
}

// Filename joins base with the format's extension.
func (f Format) Filename(base string) string {
	return base + "." + f.Extension()
}

// Column is one exported field and its header text.
type Column struct {
	Key   string
	Label string
}

// Table is a rectangular result set; each row holds one value per column.
type Table struct {
	Sheet   string
	Columns []Column
	Rows    [][]any
}

// Write renders t in the given format.
func Write(w io.Writer, f Format, t Table) error {
	if f == FormatExcel {
		return WriteExcel(w, t)
	}
	return WriteCSV(w, t)
}

var acronyms = map[string]string{
	"id": "ID", "gdp": "GDP", "fdi": "FDI", "fx": "FX", "npl": "NPL",
	"etb": "ETB", "usd": "USD", "eur": "EUR", "gbp": "GBP", "jpy": "JPY", "cny": "CNY",
	"m1": "M1", "m2": "M2",
}

// Label turns a column key into a header, e.g. total_assets -> "Total Assets"
// and etb_usd -> "ETB/USD".
func Label(key string) string {
	parts := strings.Split(key, "_")
	if len(parts) == 2 && parts[0] == "etb" {
		if cur, ok := acronyms[parts[1]]; ok {
			return "ETB/" + cur
		}
	}
	title := cases.Title(language.English)
	for i, p := range parts {
		if a, ok := acronyms[p]; ok {
			parts[i] = a
			continue
		}
		parts[i] = title.String(p)
	}
	return strings.Join(parts, " ")
}

// Columns builds labelled columns for keys.
func Columns(keys ...string) []Column {
	out := make([]Column, len(keys))
	for i, k := range keys {
		out[i] = Column{Key: k, Label: Label(k)}
	}
	return out
}

// SelectColumns validates requested against available and returns them in
// request order without duplicates. An empty request selects everything.
// Every unknown name is reported.
func SelectColumns(available, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string(nil), available...), nil
	}
	known := make(map[string]bool, len(available))
	for _, a := range available {
		known[a] = true
	}
	var out, invalid []string
	seen := map[string]bool{}
	for _, r := range requested {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		if !known[r] {
			invalid = append(invalid, r)
			continue
		}
		out = append(out, r)
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, apperr.Validation("Invalid column(s): "+strings.Join(invalid, ", "), invalid...)
	}
	return out, nil
}

// SplitList splits a comma separated query value.
func SplitList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
