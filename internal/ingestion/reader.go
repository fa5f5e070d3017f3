package ingestion

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/guttosm/etmarket/internal/validation"
)

// row is one data line of a CSV file and its 1-based line number in the file.
type row struct {
	line int
	rec  validation.Record
}

// openFile is an indirection so tests can feed files from memory.
var openFile = func(path string) (io.ReadCloser, error) { return os.Open(path) }

// readRows loads a CSV file with a header line into flat records.
//
// It fails on:
//   - unreadable files or malformed CSV
//   - a header lacking any of the required columns
//
// It tolerates:
//   - extra columns (ignored by the converters)
//   - empty cells (treated as absent values)
//
// Header names are trimmed and lower cased.
func readRows(ctx context.Context, path string, required ...string) ([]row, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	maps, err := gocsv.CSVToMaps(f)
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(maps) > 0 {
		if missing := missingColumns(maps[0], required); len(missing) > 0 {
			return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
		}
	}

	rows := make([]row, 0, len(maps))
	for i, m := range maps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := make(validation.Record, len(m))
		for k, v := range m {
			if v = strings.TrimSpace(v); v != "" {
				rec[strings.ToLower(strings.TrimSpace(k))] = v
			}
		}
		// header is line 1
		rows = append(rows, row{line: i + 2, rec: rec})
	}
	return rows, nil
}

// missingColumns lists the required columns absent from the header, sorted.
func missingColumns(first map[string]string, required []string) []string {
	have := make(map[string]bool, len(first))
	for k := range first {
		have[strings.ToLower(strings.TrimSpace(k))] = true
	}
	var missing []string
	for _, c := range required {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	sort.Strings(missing)
	return missing
}
