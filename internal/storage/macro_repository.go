package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/query"
)

// MacroRepository defines DB operations on macroeconomic snapshots.
type MacroRepository interface {
	List(ctx context.Context, plan *query.Plan) ([]models.MacroIndicators, int, error)
	Latest(ctx context.Context) (*models.MacroIndicators, error)
	OnOrBefore(ctx context.Context, date time.Time) (*models.MacroIndicators, error)
	Stats(ctx context.Context, from, to *time.Time, columns []string) (*MacroStats, error)
	Create(ctx context.Context, m *models.MacroIndicators) error
	Upsert(ctx context.Context, m *models.MacroIndicators) error
}

// ColumnStats aggregates one indicator column.
type ColumnStats struct {
	Average *float64
	Min     *float64
	Max     *float64
}

// MacroStats summarises snapshots within a date range.
type MacroStats struct {
	Records int
	From    *time.Time
	To      *time.Time
	Columns map[string]ColumnStats
}

// MacroColumns is the select list scanned by scanMacro.
var MacroColumns = append(append([]string{"id", "date"}, models.MacroMetricColumns...), "created_at", "updated_at")

var macroWriteColumns = append([]string{"date"}, models.MacroMetricColumns...)

var (
	insertMacroSQL = fmt.Sprintf(
		"INSERT INTO macro_indicators (%s) VALUES (%s) RETURNING id, created_at, updated_at",
		strings.Join(macroWriteColumns, ", "), placeholders(1, len(macroWriteColumns)))

	upsertMacroSQL = fmt.Sprintf(
		"INSERT INTO macro_indicators (%s) VALUES (%s) ON CONFLICT (date) DO UPDATE SET %s, updated_at = NOW() RETURNING id, created_at, updated_at",
		strings.Join(macroWriteColumns, ", "), placeholders(1, len(macroWriteColumns)),
		excludedAssignments(models.MacroMetricColumns))
)

// macroColumnSet guards Stats against identifiers outside the schema.
var macroColumnSet = func() map[string]bool {
	m := make(map[string]bool, len(models.MacroMetricColumns))
	for _, c := range models.MacroMetricColumns {
		m[c] = true
	}
	return m
}()

type macroRepository struct {
	db DBTX
}

func NewMacroRepository(db DBTX) MacroRepository {
	return &macroRepository{db: db}
}

func scanMacro(s rowScanner) (*models.MacroIndicators, error) {
	var m models.MacroIndicators
	dest := []any{&m.ID, &m.Date}
	for _, metric := range m.Metrics() {
		dest = append(dest, metric.Value)
	}
	dest = append(dest, &m.CreatedAt, &m.UpdatedAt)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return &m, nil
}

func macroArgs(m *models.MacroIndicators) []any {
	args := []any{m.Date}
	for _, metric := range m.Metrics() {
		args = append(args, *metric.Value)
	}
	return args
}

func (r *macroRepository) List(ctx context.Context, plan *query.Plan) ([]models.MacroIndicators, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, plan.CountSQL(), plan.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, plan.SelectSQL(MacroColumns), plan.SelectArgs()...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.MacroIndicators, 0, plan.Limit)
	for rows.Next() {
		m, err := scanMacro(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
	}
	return out, total, rows.Err()
}

func (r *macroRepository) one(ctx context.Context, tail string, args ...any) (*models.MacroIndicators, error) {
	q := "SELECT " + strings.Join(MacroColumns, ", ") + " FROM macro_indicators " + tail
	m, err := scanMacro(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// Latest returns the most recent snapshot or nil when the table is empty.
func (r *macroRepository) Latest(ctx context.Context) (*models.MacroIndicators, error) {
	return r.one(ctx, "ORDER BY date DESC LIMIT 1")
}

// OnOrBefore returns the most recent snapshot dated on or before date.
func (r *macroRepository) OnOrBefore(ctx context.Context, date time.Time) (*models.MacroIndicators, error) {
	return r.one(ctx, "WHERE date <= $1 ORDER BY date DESC LIMIT 1", date)
}

// Stats computes count, range and AVG/MIN/MAX of columns between from and to (inclusive, optional).
func (r *macroRepository) Stats(ctx context.Context, from, to *time.Time, columns []string) (*MacroStats, error) {
	var where []string
	var args []any
	if from != nil {
		args = append(args, *from)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}

	selects := []string{"COUNT(*)", "MIN(date)", "MAX(date)"}
	for _, c := range columns {
		if !macroColumnSet[c] {
			return nil, fmt.Errorf("unknown macro column %q", c)
		}
		selects = append(selects, "AVG("+c+")", "MIN("+c+")", "MAX("+c+")")
	}
	q := "SELECT " + strings.Join(selects, ", ") + " FROM macro_indicators"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	stats := &MacroStats{Columns: make(map[string]ColumnStats, len(columns))}
	vals := make([]ColumnStats, len(columns))
	dest := []any{&stats.Records, &stats.From, &stats.To}
	for i := range vals {
		dest = append(dest, &vals[i].Average, &vals[i].Min, &vals[i].Max)
	}
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(dest...); err != nil {
		return nil, err
	}
	for i, c := range columns {
		stats.Columns[c] = vals[i]
	}
	return stats, nil
}

// Create inserts m; a second snapshot for the same date is a unique violation.
func (r *macroRepository) Create(ctx context.Context, m *models.MacroIndicators) error {
	return r.db.QueryRowContext(ctx, insertMacroSQL, macroArgs(m)...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// Upsert inserts m or replaces the indicators stored for its date.
func (r *macroRepository) Upsert(ctx context.Context, m *models.MacroIndicators) error {
	return r.db.QueryRowContext(ctx, upsertMacroSQL, macroArgs(m)...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}
