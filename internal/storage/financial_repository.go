package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/query"
)

// FinancialRepository defines DB operations on financial statements.
type FinancialRepository interface {
	List(ctx context.Context, plan *query.Plan) ([]models.Financial, int, error)
	Latest(ctx context.Context, companyID int64) (*models.Financial, error)
	LatestAnnual(ctx context.Context, companyID int64) (*models.Financial, error)
	Find(ctx context.Context, companyID int64, year int, period string) (*models.Financial, error)
	Create(ctx context.Context, f *models.Financial) error
	Upsert(ctx context.Context, f *models.Financial) error
}

// FinancialColumns is the select list scanned by scanFinancial.
var FinancialColumns = append(append([]string{"id", "company_id", "year", "period"},
	models.FinancialMetricColumns...), "created_at", "updated_at", "created_by", "updated_by")

// financialWriteColumns are the columns written on insert, in argument order.
var financialWriteColumns = append(append([]string{"company_id", "year", "period"},
	models.FinancialMetricColumns...), "created_by", "updated_by")

var (
	insertFinancialSQL = fmt.Sprintf(
		"INSERT INTO financials (%s) VALUES (%s) RETURNING id, created_at, updated_at",
		strings.Join(financialWriteColumns, ", "), placeholders(1, len(financialWriteColumns)))

	upsertFinancialSQL = fmt.Sprintf(
		"INSERT INTO financials (%s) VALUES (%s) ON CONFLICT (company_id, year, period) DO UPDATE SET %s, updated_at = NOW() RETURNING id, created_at, updated_at",
		strings.Join(financialWriteColumns, ", "), placeholders(1, len(financialWriteColumns)),
		excludedAssignments(models.FinancialMetricColumns))
)

func excludedAssignments(cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " = EXCLUDED." + c
	}
	return strings.Join(parts, ", ")
}

type financialRepository struct {
	db DBTX
}

func NewFinancialRepository(db DBTX) FinancialRepository {
	return &financialRepository{db: db}
}

func scanFinancial(s rowScanner) (*models.Financial, error) {
	var f models.Financial
	dest := []any{&f.ID, &f.CompanyID, &f.Year, &f.Period}
	for _, m := range f.Metrics() {
		dest = append(dest, m.Value)
	}
	dest = append(dest, &f.CreatedAt, &f.UpdatedAt, &f.CreatedBy, &f.UpdatedBy)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return &f, nil
}

func financialArgs(f *models.Financial) []any {
	args := []any{f.CompanyID, f.Year, f.Period}
	for _, m := range f.Metrics() {
		args = append(args, *m.Value)
	}
	return append(args, f.CreatedBy, f.UpdatedBy)
}

func (r *financialRepository) List(ctx context.Context, plan *query.Plan) ([]models.Financial, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, plan.CountSQL(), plan.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, plan.SelectSQL(FinancialColumns), plan.SelectArgs()...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.Financial, 0, plan.Limit)
	for rows.Next() {
		f, err := scanFinancial(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *f)
	}
	return out, total, rows.Err()
}

func (r *financialRepository) one(ctx context.Context, where string, args ...any) (*models.Financial, error) {
	q := "SELECT " + strings.Join(FinancialColumns, ", ") + " FROM financials WHERE " + where
	f, err := scanFinancial(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

// Latest returns the most recent statement of any period, Annual ranking after Q4.
func (r *financialRepository) Latest(ctx context.Context, companyID int64) (*models.Financial, error) {
	return r.one(ctx, `company_id = $1
		ORDER BY year DESC, CASE period WHEN 'Q1' THEN 1 WHEN 'Q2' THEN 2 WHEN 'Q3' THEN 3 WHEN 'Q4' THEN 4 ELSE 5 END DESC
		LIMIT 1`, companyID)
}

// LatestAnnual returns the most recent Annual statement.
func (r *financialRepository) LatestAnnual(ctx context.Context, companyID int64) (*models.Financial, error) {
	return r.one(ctx, `company_id = $1 AND period = 'Annual' ORDER BY year DESC LIMIT 1`, companyID)
}

func (r *financialRepository) Find(ctx context.Context, companyID int64, year int, period string) (*models.Financial, error) {
	return r.one(ctx, `company_id = $1 AND year = $2 AND period = $3`, companyID, year, period)
}

// Create inserts f; a duplicate (company_id, year, period) fails with a unique violation.
func (r *financialRepository) Create(ctx context.Context, f *models.Financial) error {
	return r.db.QueryRowContext(ctx, insertFinancialSQL, financialArgs(f)...).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

// Upsert inserts f or replaces the metrics of the existing (company_id, year, period) row.
func (r *financialRepository) Upsert(ctx context.Context, f *models.Financial) error {
	return r.db.QueryRowContext(ctx, upsertFinancialSQL, financialArgs(f)...).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}
